package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c1nderscript/Cinder-s-Webscraper/internal/config"
	"github.com/c1nderscript/Cinder-s-Webscraper/internal/tasks"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/registry"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/worker"
)

// A fresh database gets a heartbeat task so a bare "cinder run" shows activity.
const (
	dummyTaskName = "dummy"
	dummyInterval = 5 * time.Second
)

// RunCmd starts the scheduler and polls until interrupted.
func RunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			poll, err := a.cfg.PollEvery()
			if err != nil {
				return err
			}

			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				if err := seedDummy(ctx, reg, a.logger); err != nil {
					return err
				}

				var wg sync.WaitGroup
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := config.Watch(ctx, a.configPath, a.logger, func(c *config.Config) {
						a.jobs.SetWebsites(c.Websites)
					})
					if err != nil {
						a.logger.Warn("config watcher stopped", "error", err)
					}
				}()

				w := worker.New(reg, worker.PollInterval(poll), worker.WithLogger(a.logger))
				a.logger.Info("scheduler running",
					"tasks", reg.Len(), "orphans", len(reg.Orphans()), "poll_interval", poll, "database", a.cfg.Database)

				err := w.Start(ctx)
				stop()
				wg.Wait()

				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					a.logger.Info("scheduler stopped")
					return nil
				}
				return err
			})
		},
	}
}

func seedDummy(ctx context.Context, reg *registry.Registry, logger *slog.Logger) error {
	schedules, err := reg.ListSchedules(ctx)
	if err != nil {
		return err
	}
	if len(schedules) > 0 {
		return nil
	}
	if _, err := reg.AddLocatedTask(ctx, dummyTaskName, tasks.HeartbeatLocator, dummyInterval); err != nil {
		return err
	}
	logger.Info("no tasks stored; scheduled heartbeat", "task", dummyTaskName, "interval", dummyInterval)
	return nil
}
