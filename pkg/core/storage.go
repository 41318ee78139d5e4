package core

import (
	"context"
	"iter"
	"time"
)

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Store defines the persistence layer for task records.
// Every failure of the underlying medium is reported as a *PersistenceError.
type Store interface {
	// Migrate creates the task table if it is absent. Safe to call repeatedly.
	Migrate(ctx context.Context) error

	// Create inserts rec, failing with *DuplicateNameError if the name exists.
	Create(ctx context.Context, rec *TaskRecord) error
	// Upsert inserts rec or replaces the locator and interval of an existing row.
	Upsert(ctx context.Context, rec *TaskRecord) error
	// Get returns the record for name, or ErrNotFound.
	Get(ctx context.Context, name string) (*TaskRecord, error)
	// UpdateInterval reports whether a row was changed.
	UpdateInterval(ctx context.Context, name string, seconds int64) (bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, name string) (bool, error)
	// List yields every record ordered by name. Each range runs a fresh query.
	List(ctx context.Context) iter.Seq2[TaskRecord, error]

	// Close releases the storage handle. Safe to call more than once.
	Close() error
}
