package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/security"
)

// Schedule defines when a task should run next.
type Schedule interface {
	Next(from time.Time) time.Time
}

// everySchedule runs at fixed intervals.
type everySchedule struct {
	interval time.Duration
}

// Every creates a schedule that runs at fixed intervals.
func Every(d time.Duration) Schedule {
	return &everySchedule{interval: d}
}

func (s *everySchedule) Next(from time.Time) time.Time {
	return from.Add(s.interval)
}

// descriptorParser only needs to understand "@every"; full cron specs are rejected.
var descriptorParser = cron.NewParser(cron.Descriptor)

// ParseInterval parses an interval string into a whole-second duration.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	switch {
	case s == "":
		return 0, invalid(s, "empty interval")
	case strings.HasPrefix(s, "@"):
		sched, err := descriptorParser.Parse(s)
		if err != nil {
			return 0, invalid(s, err.Error())
		}
		every, ok := sched.(cron.ConstantDelaySchedule)
		if !ok {
			return 0, invalid(s, "only @every descriptors are supported")
		}
		d = every.Delay
		// cron rounds @every down to whole seconds and floors it at one second;
		// re-check the original text so "@every 1500ms" is rejected, not rounded.
		if raw, err := time.ParseDuration(strings.TrimSpace(strings.TrimPrefix(s, "@every"))); err == nil {
			d = raw
		}
	default:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			if n > int64(security.MaxInterval/time.Second) {
				return 0, invalid(s, "interval too large")
			}
			d = time.Duration(n) * time.Second
			break
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, invalid(s, "want seconds, a duration like 90s, or @every <duration>")
		}
		d = parsed
	}

	if err := security.ValidateInterval(d); err != nil {
		return 0, err
	}
	return d, nil
}

func invalid(s, reason string) error {
	return &core.ValidationError{
		Field: "interval",
		Err:   fmt.Errorf("%w: %q: %s", core.ErrInvalidInterval, s, reason),
	}
}
