// Package tasks holds the functions the scheduler can run by locator.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/c1nderscript/Cinder-s-Webscraper/internal/config"
	"github.com/c1nderscript/Cinder-s-Webscraper/internal/scrape"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/catalog"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

var (
	HeartbeatLocator = core.Locator{Module: "builtin", Symbol: "heartbeat"}
	ScrapeLocator    = core.Locator{Module: "scraping", Symbol: "scrape-websites"}
)

// ErrNoEngine is returned by ScrapeWebsites when no scrape engine is configured.
var ErrNoEngine = errors.New("cinder: scrape engine not configured")

// Deps are the collaborators of the built-in jobs.
type Deps struct {
	Logger   *slog.Logger
	Engine   *scrape.Engine
	Websites []config.Website
}

// Jobs implements the built-in catalog functions.
type Jobs struct {
	logger *slog.Logger
	engine *scrape.Engine

	mu       sync.RWMutex
	websites []config.Website

	beats atomic.Int64
}

// Register creates the built-in jobs and adds them to cat.
func Register(cat *catalog.Catalog, deps Deps) (*Jobs, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	j := &Jobs{
		logger:   deps.Logger,
		engine:   deps.Engine,
		websites: slices.Clone(deps.Websites),
	}

	if err := cat.Register(HeartbeatLocator, j.Heartbeat,
		catalog.Describe("log a heartbeat line")); err != nil {
		return nil, err
	}
	if err := cat.Register(ScrapeLocator, j.ScrapeWebsites,
		catalog.Describe("scrape every configured website")); err != nil {
		return nil, err
	}
	return j, nil
}

// SetWebsites replaces the scrape targets. Runs already in progress keep the old list.
func (j *Jobs) SetWebsites(sites []config.Website) {
	j.mu.Lock()
	j.websites = slices.Clone(sites)
	j.mu.Unlock()
}

// Websites returns the current scrape targets.
func (j *Jobs) Websites() []config.Website {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.websites)
}

// Heartbeats returns how many times Heartbeat has run.
func (j *Jobs) Heartbeats() int64 {
	return j.beats.Load()
}

func (j *Jobs) Heartbeat(ctx context.Context) error {
	n := j.beats.Add(1)
	j.logger.Info("heartbeat", "count", n)
	return nil
}

// ScrapeWebsites scrapes every configured website in order. A failing site
// does not stop the rest; all failures are joined into the returned error.
func (j *Jobs) ScrapeWebsites(ctx context.Context) error {
	if j.engine == nil {
		return ErrNoEngine
	}
	sites := j.Websites()
	if len(sites) == 0 {
		j.logger.Info("no websites configured")
		return nil
	}

	var errs []error
	scraped := 0
	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, _, err := j.engine.Scrape(ctx, site); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", site.Name, err))
			continue
		}
		scraped++
	}

	j.logger.Info("scrape run finished", "websites", len(sites), "scraped", scraped, "failed", len(errs))
	return errors.Join(errs...)
}
