package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/catalog"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/security"
)

// Registry owns the live set of recurring tasks.
// Every mutation is written to the store before the live set changes, so a
// failed write leaves the registry as it was.
type Registry struct {
	store   core.Store
	catalog *catalog.Catalog
	clock   core.Clock
	logger  *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	order   []string // insertion order of jobs
	orphans map[string]core.TaskRecord
	closed  bool

	// Hooks
	hooksMu    sync.RWMutex
	onComplete []func(context.Context, core.RunResult)
	onFail     []func(context.Context, core.RunResult)
}

// Open migrates the store and rebuilds the live task set from it.
// Records whose locator does not resolve in cat are kept in the store and
// reported by Orphans. The store is owned by the registry once Open succeeds.
func Open(ctx context.Context, store core.Store, cat *catalog.Catalog, opts ...Option) (*Registry, error) {
	r := &Registry{
		store:   store,
		catalog: cat,
		clock:   core.SystemClock,
		logger:  slog.Default(),
		jobs:    make(map[string]*job),
		orphans: make(map[string]core.TaskRecord),
	}
	for _, opt := range opts {
		opt.apply(r)
	}
	if r.catalog == nil {
		r.catalog = catalog.New()
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("registry initialized", "tasks", len(r.jobs), "orphans", len(r.orphans))
	return r, nil
}

func (r *Registry) load(ctx context.Context) error {
	now := r.clock.Now()
	for rec, err := range r.store.List(ctx) {
		if err != nil {
			return err
		}
		loc := rec.Locator()

		if !storedIntervalValid(rec.IntervalSeconds) {
			r.orphans[rec.Name] = rec
			r.logger.Warn("orphaned task: stored interval out of range",
				"task", rec.Name, "locator", loc.String(), "interval_seconds", rec.IntervalSeconds)
			continue
		}

		fn, err := r.catalog.Resolve(loc)
		if err != nil {
			r.orphans[rec.Name] = rec
			r.logger.Warn("orphaned task: locator does not resolve",
				"task", rec.Name, "locator", loc.String(), "error", err)
			continue
		}

		r.insert(newJob(rec.Name, loc, fn, rec.Interval(), now))
		r.logger.Debug("loaded task", "task", rec.Name, "locator", loc.String(), "interval", rec.Interval())
	}
	return nil
}

// storedIntervalValid bounds the raw column before converting it, since
// seconds beyond MaxInterval can overflow time.Duration.
func storedIntervalValid(seconds int64) bool {
	if seconds <= 0 || seconds > int64(security.MaxInterval/time.Second) {
		return false
	}
	return security.ValidateInterval(time.Duration(seconds)*time.Second) == nil
}

// AddTask schedules fn under name every interval and persists it.
// fn must be registered in the catalog; an existing task with the same name is
// replaced. On a persistence failure nothing changes.
func (r *Registry) AddTask(ctx context.Context, name string, fn catalog.Func, interval time.Duration) (ScheduledJob, error) {
	if err := validate(name, interval); err != nil {
		return ScheduledJob{}, err
	}
	loc, ok := r.catalog.LocatorOf(fn)
	if !ok {
		return ScheduledJob{}, &core.ValidationError{Field: "func", Err: core.ErrUnregisteredFunc}
	}
	resolved, err := r.catalog.Resolve(loc)
	if err != nil {
		return ScheduledJob{}, &core.ValidationError{Field: "locator", Err: err}
	}
	return r.addTask(ctx, name, loc, resolved, interval)
}

// AddLocatedTask is AddTask for a function addressed by its catalog locator.
func (r *Registry) AddLocatedTask(ctx context.Context, name string, loc core.Locator, interval time.Duration) (ScheduledJob, error) {
	if err := validate(name, interval); err != nil {
		return ScheduledJob{}, err
	}
	if err := security.ValidateLocator(loc); err != nil {
		return ScheduledJob{}, err
	}
	fn, err := r.catalog.Resolve(loc)
	if err != nil {
		return ScheduledJob{}, &core.ValidationError{Field: "locator", Err: err}
	}
	return r.addTask(ctx, name, loc, fn, interval)
}

func (r *Registry) addTask(ctx context.Context, name string, loc core.Locator, fn catalog.Func, interval time.Duration) (ScheduledJob, error) {
	if err := r.checkOpen(); err != nil {
		return ScheduledJob{}, err
	}

	if err := r.store.Upsert(ctx, core.NewTaskRecord(name, loc, interval)); err != nil {
		r.logger.Error("failed to persist task", "task", name, "error", err)
		return ScheduledJob{}, err
	}

	r.mu.Lock()
	if old, ok := r.jobs[name]; ok {
		old.cancelled = true
		r.evict(name)
	}
	delete(r.orphans, name)
	j := newJob(name, loc, fn, interval, r.clock.Now())
	r.insert(j)
	snapshot := j.ScheduledJob
	r.mu.Unlock()

	r.logger.Info("added task", "task", name, "locator", loc.String(), "interval", interval)
	return snapshot, nil
}

// RemoveTask cancels the live task and deletes its record.
// It reports whether a live task was removed.
func (r *Registry) RemoveTask(ctx context.Context, name string) (bool, error) {
	if err := r.checkOpen(); err != nil {
		return false, err
	}
	if _, err := r.store.Delete(ctx, name); err != nil {
		r.logger.Error("failed to delete task record", "task", name, "error", err)
		return false, err
	}

	r.mu.Lock()
	j, ok := r.jobs[name]
	if ok {
		j.cancelled = true
		r.evict(name)
	}
	delete(r.orphans, name)
	r.mu.Unlock()

	if !ok {
		r.logger.Info("remove requested for unknown task", "task", name)
		return false, nil
	}
	r.logger.Info("removed task", "task", name)
	return true, nil
}

// UpdateSchedule changes the interval of a persisted task. A live task is
// replaced in place by one with the same function and the new interval, so
// its next run is computed from the new interval.
// It reports whether a record was changed.
func (r *Registry) UpdateSchedule(ctx context.Context, name string, interval time.Duration) (bool, error) {
	if err := security.ValidateInterval(interval); err != nil {
		return false, err
	}
	if err := r.checkOpen(); err != nil {
		return false, err
	}

	seconds := int64(interval / time.Second)
	changed, err := r.store.UpdateInterval(ctx, name, seconds)
	if err != nil {
		r.logger.Error("failed to update task interval", "task", name, "error", err)
		return false, err
	}
	if !changed {
		r.logger.Info("update requested for unknown task", "task", name)
		return false, nil
	}

	r.mu.Lock()
	if old, ok := r.jobs[name]; ok {
		old.cancelled = true
		j := newJob(name, old.Locator, old.fn, interval, r.clock.Now())
		j.LastRun, j.Runs, j.Failures = old.LastRun, old.Runs, old.Failures
		r.jobs[name] = j
	}
	if rec, ok := r.orphans[name]; ok {
		rec.IntervalSeconds = seconds
		r.orphans[name] = rec
	}
	r.mu.Unlock()

	r.logger.Info("updated task interval", "task", name, "interval", interval)
	return true, nil
}

// CreateSchedule persists a new task, failing with *core.DuplicateNameError
// if the name is taken. The task goes live when loc resolves; otherwise it is
// kept as an orphan until a catalog with that locator loads it.
func (r *Registry) CreateSchedule(ctx context.Context, name string, loc core.Locator, interval time.Duration) error {
	if err := validate(name, interval); err != nil {
		return err
	}
	if err := security.ValidateLocator(loc); err != nil {
		return err
	}
	if err := r.checkOpen(); err != nil {
		return err
	}

	rec := core.NewTaskRecord(name, loc, interval)
	if err := r.store.Create(ctx, rec); err != nil {
		return err
	}

	fn, resolveErr := r.catalog.Resolve(loc)

	r.mu.Lock()
	if old, ok := r.jobs[name]; ok {
		old.cancelled = true
		r.evict(name)
	}
	if resolveErr != nil {
		r.orphans[name] = *rec
	} else {
		delete(r.orphans, name)
		r.insert(newJob(name, loc, fn, interval, r.clock.Now()))
	}
	r.mu.Unlock()

	if resolveErr != nil {
		r.logger.Warn("created schedule for unresolved locator", "task", name, "locator", loc.String(), "error", resolveErr)
		return nil
	}
	r.logger.Info("created schedule", "task", name, "locator", loc.String(), "interval", interval)
	return nil
}

// DeleteSchedule deletes the task record and cancels any live task with that
// name. It reports whether a record was removed.
func (r *Registry) DeleteSchedule(ctx context.Context, name string) (bool, error) {
	if err := r.checkOpen(); err != nil {
		return false, err
	}
	removed, err := r.store.Delete(ctx, name)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	if j, ok := r.jobs[name]; ok {
		j.cancelled = true
		r.evict(name)
	}
	delete(r.orphans, name)
	r.mu.Unlock()

	if removed {
		r.logger.Info("deleted schedule", "task", name)
	}
	return removed, nil
}

// GetSchedule returns the persisted name and interval of a task.
func (r *Registry) GetSchedule(ctx context.Context, name string) (core.Schedule, error) {
	if err := r.checkOpen(); err != nil {
		return core.Schedule{}, err
	}
	rec, err := r.store.Get(ctx, name)
	if err != nil {
		return core.Schedule{}, err
	}
	return rec.Schedule(), nil
}

// ListSchedules returns every persisted task, including orphans.
func (r *Registry) ListSchedules(ctx context.Context) ([]core.Schedule, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	var out []core.Schedule
	for rec, err := range r.store.List(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Schedule())
	}
	return out, nil
}

// ListTasks returns a copy of the live tasks keyed by name.
func (r *Registry) ListTasks() map[string]ScheduledJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]ScheduledJob, len(r.jobs))
	for name, j := range r.jobs {
		out[name] = j.ScheduledJob
	}
	return out
}

// Tasks returns the live tasks in insertion order.
func (r *Registry) Tasks() []ScheduledJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ScheduledJob, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.jobs[name].ScheduledJob)
	}
	return out
}

// Orphans returns persisted records that were not scheduled because their
// locator did not resolve, sorted by name.
func (r *Registry) Orphans() []core.TaskRecord {
	r.mu.Lock()
	out := make([]core.TaskRecord, 0, len(r.orphans))
	for _, rec := range r.orphans {
		out = append(out, rec)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of live tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// RunPending invokes every live task whose next run is at or before now, in
// insertion order, on the calling goroutine. Each invoked task is rescheduled
// to now plus its interval whether it succeeded or not; missed ticks are not
// replayed. Failures and panics are captured in the returned results.
func (r *Registry) RunPending(ctx context.Context, now time.Time) []core.RunResult {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	var due []*job
	for _, name := range r.order {
		if j := r.jobs[name]; j.due(now) {
			due = append(due, j)
		}
	}
	r.mu.Unlock()

	if len(due) == 0 {
		return nil
	}

	results := make([]core.RunResult, 0, len(due))
	for _, j := range due {
		if ctx.Err() != nil {
			break
		}

		// An earlier task in this pass may have removed or replaced this one.
		r.mu.Lock()
		skip := j.cancelled
		r.mu.Unlock()
		if skip {
			continue
		}

		res := r.invoke(ctx, j, now)

		r.mu.Lock()
		if !j.cancelled {
			j.NextRun = j.sched.Next(now)
			j.LastRun = now
			j.Runs++
			if res.Err != nil {
				j.Failures++
			}
		}
		r.mu.Unlock()

		r.report(ctx, res)
		results = append(results, res)
	}
	return results
}

func (r *Registry) invoke(ctx context.Context, j *job, now time.Time) (res core.RunResult) {
	res = core.RunResult{
		RunID:     uuid.New().String(),
		Name:      j.Name,
		Locator:   j.Locator,
		StartedAt: now,
	}
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
		res.Duration = time.Since(start)
	}()

	r.logger.Debug("running task", "task", j.Name, "run_id", res.RunID)
	res.Err = j.fn(ctx)
	return res
}

func (r *Registry) report(ctx context.Context, res core.RunResult) {
	if res.Err != nil {
		r.logger.Error("task failed",
			"task", res.Name,
			"run_id", res.RunID,
			"duration", res.Duration,
			"error", security.SanitizeErrorMessage(res.Err.Error()))
		r.callHooks(ctx, res, r.failHooks())
		return
	}
	r.logger.Debug("task completed", "task", res.Name, "run_id", res.RunID, "duration", res.Duration)
	r.callHooks(ctx, res, r.completeHooks())
}

// Close releases the store. Later calls return nil; mutations after Close
// return core.ErrClosed and RunPending does nothing.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	for _, j := range r.jobs {
		j.cancelled = true
	}
	r.jobs = make(map[string]*job)
	r.order = nil
	r.mu.Unlock()

	err := r.store.Close()
	r.logger.Info("registry closed")
	return err
}

// Catalog returns the catalog the registry resolves locators against.
func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

func (r *Registry) checkOpen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return core.ErrClosed
	}
	return nil
}

// insert appends j to the live set. Callers hold mu.
func (r *Registry) insert(j *job) {
	r.jobs[j.Name] = j
	r.order = append(r.order, j.Name)
}

// evict removes name from the live set. Callers hold mu.
func (r *Registry) evict(name string) {
	delete(r.jobs, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func validate(name string, interval time.Duration) error {
	if err := security.ValidateTaskName(name); err != nil {
		return err
	}
	return security.ValidateInterval(interval)
}
