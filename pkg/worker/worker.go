package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// Runner runs the tasks that are due at now.
type Runner interface {
	RunPending(ctx context.Context, now time.Time) []core.RunResult
}

// Worker polls a Runner on a fixed interval.
type Worker struct {
	runner Runner
	config WorkerConfig
	logger *slog.Logger
}

// New creates a worker for the given runner, usually a *registry.Registry.
func New(runner Runner, opts ...WorkerOption) *Worker {
	config := WorkerConfig{
		PollInterval: DefaultPollInterval,
		WorkerID:     uuid.New().String(),
		Clock:        core.SystemClock,
		Logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt.ApplyWorker(&config)
	}

	return &Worker{
		runner: runner,
		config: config,
		logger: config.Logger.With("worker_id", config.WorkerID),
	}
}

// Config returns the effective configuration.
func (w *Worker) Config() WorkerConfig {
	return w.config
}

// Start runs a pass every poll interval. Blocks until context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker started", "poll_interval", w.config.PollInterval)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single pass at the worker clock's current time.
func (w *Worker) RunOnce(ctx context.Context) []core.RunResult {
	now := w.config.Clock.Now()
	results := w.runner.RunPending(ctx, now)
	if len(results) == 0 {
		return results
	}

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	if failed > 0 {
		w.logger.Warn("poll pass had failures", "ran", len(results), "failed", failed)
	} else {
		w.logger.Debug("poll pass complete", "ran", len(results))
	}
	return results
}
