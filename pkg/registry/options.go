package registry

import (
	"log/slog"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// Option configures a Registry.
type Option interface {
	apply(*Registry)
}

type optionFunc func(*Registry)

func (f optionFunc) apply(r *Registry) { f(r) }

// WithClock sets the clock used to compute next run times.
func WithClock(c core.Clock) Option {
	return optionFunc(func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	})
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	})
}
