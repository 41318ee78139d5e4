package config

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads the config at path whenever it changes and hands each new,
// valid config to fn. Invalid files are logged and skipped. It blocks until
// ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func(*Config)) error {
	return watch(ctx, path, logger, reloadDebounce, fn)
}

func watch(ctx context.Context, path string, logger *slog.Logger, debounce time.Duration, fn func(*Config)) error {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Dir(path)
	file := filepath.Base(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cinder: config watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file rather than write it.
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("cinder: watch %s: %w", dir, err)
	}

	var (
		mu       sync.Mutex
		timer    *time.Timer
		lastHash uint64
	)
	if cfg, err := Load(path); err == nil {
		lastHash = hashConfig(cfg)
	}

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		cfg, err := Load(path)
		if err != nil {
			logger.Warn("config reload failed", "path", path, "error", err)
			return
		}

		h := hashConfig(cfg)
		mu.Lock()
		unchanged := h != 0 && h == lastHash
		lastHash = h
		mu.Unlock()
		if unchanged {
			logger.Debug("config unchanged; skipping reload", "path", path)
			return
		}

		logger.Info("config reloaded", "path", path, "websites", len(cfg.Websites))
		fn(cfg)
	}

	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, reload)
	}

	logger.Debug("config watcher started", "dir", dir, "file", file)
	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

func hashConfig(cfg *Config) uint64 {
	b, err := json.Marshal(cfg)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
