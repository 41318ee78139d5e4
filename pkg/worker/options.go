package worker

import (
	"log/slog"
	"time"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// DefaultPollInterval is how often a worker checks for due tasks.
const DefaultPollInterval = time.Second

// WorkerOption configures a Worker.
type WorkerOption interface {
	ApplyWorker(*WorkerConfig)
}

type workerOptionFunc func(*WorkerConfig)

func (f workerOptionFunc) ApplyWorker(c *WorkerConfig) { f(c) }

// WorkerConfig holds worker configuration.
type WorkerConfig struct {
	PollInterval time.Duration
	WorkerID     string
	Clock        core.Clock
	Logger       *slog.Logger
}

// PollInterval sets how often the worker runs a pass. Non-positive values are ignored.
func PollInterval(d time.Duration) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		if d > 0 {
			c.PollInterval = d
		}
	})
}

// WithClock sets the clock whose time is passed to RunPending.
func WithClock(clock core.Clock) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		if clock != nil {
			c.Clock = clock
		}
	})
}

// WithLogger sets the worker's logger.
func WithLogger(l *slog.Logger) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		if l != nil {
			c.Logger = l
		}
	})
}

// WorkerID overrides the generated worker ID used in log lines.
func WorkerID(id string) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		if id != "" {
			c.WorkerID = id
		}
	})
}
