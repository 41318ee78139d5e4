package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

type recordingRunner struct {
	mu     sync.Mutex
	calls  []time.Time
	result []core.RunResult
}

func (r *recordingRunner) RunPending(_ context.Context, now time.Time) []core.RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, now)
	return r.result
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Defaults(t *testing.T) {
	w := New(&recordingRunner{})
	config := w.Config()

	assert.Equal(t, DefaultPollInterval, config.PollInterval)
	assert.NotEmpty(t, config.WorkerID)
	assert.NotNil(t, config.Clock)
	assert.NotNil(t, config.Logger)
}

func TestPollInterval_IgnoresNonPositive(t *testing.T) {
	config := WorkerConfig{PollInterval: time.Second}

	PollInterval(0).ApplyWorker(&config)
	assert.Equal(t, time.Second, config.PollInterval)

	PollInterval(-time.Second).ApplyWorker(&config)
	assert.Equal(t, time.Second, config.PollInterval)

	PollInterval(250 * time.Millisecond).ApplyWorker(&config)
	assert.Equal(t, 250*time.Millisecond, config.PollInterval)
}

func TestWorkerID_Override(t *testing.T) {
	config := WorkerConfig{WorkerID: "generated"}

	WorkerID("").ApplyWorker(&config)
	assert.Equal(t, "generated", config.WorkerID)

	WorkerID("poller-1").ApplyWorker(&config)
	assert.Equal(t, "poller-1", config.WorkerID)
}

func TestWorkerOptionFunc_ImplementsInterface(t *testing.T) {
	var opt WorkerOption = workerOptionFunc(func(c *WorkerConfig) {
		c.WorkerID = "custom-id"
	})

	config := WorkerConfig{}
	opt.ApplyWorker(&config)

	assert.Equal(t, "custom-id", config.WorkerID)
}

func TestRunOnce_UsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	runner := &recordingRunner{
		result: []core.RunResult{
			{Name: "ok"},
			{Name: "bad", Err: errors.New("boom")},
		},
	}
	w := New(runner,
		WithClock(core.ClockFunc(func() time.Time { return fixed })),
		WithLogger(quietLogger()),
	)

	results := w.RunOnce(context.Background())
	require.Len(t, results, 2)
	require.Equal(t, 1, runner.count())
	assert.Equal(t, fixed, runner.calls[0])
}

func TestStart_PollsUntilCancelled(t *testing.T) {
	runner := &recordingRunner{}
	w := New(runner, PollInterval(10*time.Millisecond), WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return runner.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
