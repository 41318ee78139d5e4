package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

func TestEvery(t *testing.T) {
	s := Every(5 * time.Minute)
	now := time.Now()
	next := s.Next(now)

	assert.Equal(t, now.Add(5*time.Minute), next)
}

func TestEvery_MultipleNext(t *testing.T) {
	s := Every(time.Hour)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	next1 := s.Next(start)
	next2 := s.Next(next1)
	next3 := s.Next(next2)

	assert.Equal(t, time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC), next1)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), next2)
	assert.Equal(t, time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), next3)
}

func TestParseInterval_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"5", 5 * time.Second},
		{" 60 ", time.Minute},
		{"90s", 90 * time.Second},
		{"1m", time.Minute},
		{"1h30m", 90 * time.Minute},
		{"@every 5s", 5 * time.Second},
		{"@every 2m", 2 * time.Minute},
	}

	for _, tt := range tests {
		got, err := ParseInterval(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseInterval_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"0",
		"-5",
		"500ms",
		"1.5s",
		"@every 1500ms",
		"@daily",
		"0 9 * * *",
		"soon",
		"@every nope",
	}

	for _, in := range inputs {
		_, err := ParseInterval(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, core.ErrInvalidInterval), in)

		var ve *core.ValidationError
		assert.True(t, errors.As(err, &ve), in)
	}
}

func TestScheduleInterface(t *testing.T) {
	var _ Schedule = Every(time.Minute) //nolint:staticcheck // interface conformance check
}
