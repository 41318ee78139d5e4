package registry

import (
	"context"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// OnTaskComplete registers a callback for successful task runs.
func (r *Registry) OnTaskComplete(fn func(context.Context, core.RunResult)) {
	r.hooksMu.Lock()
	r.onComplete = append(r.onComplete, fn)
	r.hooksMu.Unlock()
}

// OnTaskFail registers a callback for task runs that returned an error or panicked.
func (r *Registry) OnTaskFail(fn func(context.Context, core.RunResult)) {
	r.hooksMu.Lock()
	r.onFail = append(r.onFail, fn)
	r.hooksMu.Unlock()
}

func (r *Registry) completeHooks() []func(context.Context, core.RunResult) {
	r.hooksMu.RLock()
	defer r.hooksMu.RUnlock()
	hooks := make([]func(context.Context, core.RunResult), len(r.onComplete))
	copy(hooks, r.onComplete)
	return hooks
}

func (r *Registry) failHooks() []func(context.Context, core.RunResult) {
	r.hooksMu.RLock()
	defer r.hooksMu.RUnlock()
	hooks := make([]func(context.Context, core.RunResult), len(r.onFail))
	copy(hooks, r.onFail)
	return hooks
}

func (r *Registry) callHooks(ctx context.Context, res core.RunResult, hooks []func(context.Context, core.RunResult)) {
	for _, fn := range hooks {
		fn(ctx, res)
	}
}
