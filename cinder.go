// Package cinder provides a persistent scheduler for recurring tasks.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Register the functions tasks may run
//	cat := cinder.NewCatalog()
//	cat.MustRegister("reports", "nightly", buildReport)
//
//	// Open storage and the registry; persisted tasks are restored
//	store, _ := cinder.OpenStorage("data/schedules.db")
//	reg, _ := cinder.Open(ctx, store, cat)
//	defer reg.Close()
//
//	// Schedule a task
//	reg.AddTask(ctx, "nightly-report", buildReport, 24*time.Hour)
//
//	// Poll for due tasks
//	cinder.NewWorker(reg).Start(ctx)
package cinder

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/catalog"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/registry"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/schedule"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/security"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/storage"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/worker"
)

type (
	// Locator identifies a catalog function as "module:symbol".
	Locator = core.Locator

	// TaskRecord is the persisted form of a task.
	TaskRecord = core.TaskRecord

	// Schedule is the name/interval view of a persisted task.
	Schedule = core.Schedule

	// RunResult is the outcome of one task invocation.
	RunResult = core.RunResult

	// Store defines the persistence layer for tasks.
	Store = core.Store

	// Clock abstracts time for testing.
	Clock = core.Clock

	// ValidationError reports rejected input.
	ValidationError = core.ValidationError

	// DuplicateNameError reports a create for a name that already exists.
	DuplicateNameError = core.DuplicateNameError

	// PersistenceError reports a failure of the storage medium.
	PersistenceError = core.PersistenceError

	// ResolutionError reports a locator missing from the catalog.
	ResolutionError = core.ResolutionError

	// Func is the body of a scheduled task.
	Func = catalog.Func

	// Catalog maps locators to task functions.
	Catalog = catalog.Catalog

	// Registry owns the live set of recurring tasks.
	Registry = registry.Registry

	// RegistryOption configures a Registry.
	RegistryOption = registry.Option

	// ScheduledJob is a snapshot of a live task.
	ScheduledJob = registry.ScheduledJob

	// Worker polls a registry for due tasks.
	Worker = worker.Worker

	// WorkerOption configures a Worker.
	WorkerOption = worker.WorkerOption

	// WorkerConfig holds worker configuration.
	WorkerConfig = worker.WorkerConfig

	// GormStorage implements Store using GORM.
	GormStorage = storage.GormStorage

	// OpenOption configures OpenStorage.
	OpenOption = storage.OpenOption
)

// Security limits
const (
	MaxTaskNameLength     = security.MaxTaskNameLength
	MaxRetries            = security.MaxRetries
	MaxErrorMessageLength = security.MaxErrorMessageLength
	MaxInterval           = security.MaxInterval
)

// Error variables
var (
	ErrInvalidTaskName  = core.ErrInvalidTaskName
	ErrTaskNameTooLong  = core.ErrTaskNameTooLong
	ErrInvalidInterval  = core.ErrInvalidInterval
	ErrInvalidLocator   = core.ErrInvalidLocator
	ErrUnregisteredFunc = core.ErrUnregisteredFunc
	ErrNilFunc          = core.ErrNilFunc
	ErrNotFound         = core.ErrNotFound
	ErrDuplicateName    = core.ErrDuplicateName
	ErrDuplicateLocator = core.ErrDuplicateLocator
	ErrUnknownLocator   = core.ErrUnknownLocator
	ErrPersistence      = core.ErrPersistence
	ErrClosed           = core.ErrClosed
)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return catalog.New()
}

// Open migrates store and restores the tasks it holds.
func Open(ctx context.Context, store Store, cat *Catalog, opts ...RegistryOption) (*Registry, error) {
	return registry.Open(ctx, store, cat, opts...)
}

// OpenStorage opens an SQLite path or postgres:// URL.
func OpenStorage(dsn string, opts ...OpenOption) (*GormStorage, error) {
	return storage.Open(dsn, opts...)
}

// NewGormStorage creates a new GORM-backed storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return storage.NewGormStorage(db)
}

// NewWorker creates a poller for the given registry.
func NewWorker(reg *Registry, opts ...WorkerOption) *Worker {
	return worker.New(reg, opts...)
}

// ParseLocator parses a "module:symbol" string.
func ParseLocator(s string) (Locator, error) {
	return core.ParseLocator(s)
}

// ParseInterval parses "5", "90s", "1m" or "@every 1h30m".
func ParseInterval(s string) (time.Duration, error) {
	return schedule.ParseInterval(s)
}

// ValidateTaskName validates a task name.
func ValidateTaskName(name string) error {
	return security.ValidateTaskName(name)
}

// SanitizeErrorMessage truncates and sanitizes error messages for logging.
func SanitizeErrorMessage(msg string) string {
	return security.SanitizeErrorMessage(msg)
}

// Registry option functions

// WithClock sets the registry clock.
func WithClock(c Clock) RegistryOption {
	return registry.WithClock(c)
}

// Worker option functions

// PollInterval sets how often the worker checks for due tasks.
func PollInterval(d time.Duration) WorkerOption {
	return worker.PollInterval(d)
}

// WorkerClock sets the clock the worker passes to RunPending.
func WorkerClock(c Clock) WorkerOption {
	return worker.WithClock(c)
}
