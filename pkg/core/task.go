package core

import (
	"fmt"
	"strings"
	"time"
)

// Locator identifies a catalog function by module and symbol.
// Its string form is "module:symbol".
type Locator struct {
	Module string
	Symbol string
}

// String returns the "module:symbol" form of the locator.
func (l Locator) String() string {
	return l.Module + ":" + l.Symbol
}

// IsZero reports whether the locator is empty.
func (l Locator) IsZero() bool {
	return l.Module == "" && l.Symbol == ""
}

// ParseLocator parses a "module:symbol" string.
// Only the shape is checked here; name rules are enforced by the security package.
func ParseLocator(s string) (Locator, error) {
	module, symbol, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || module == "" || symbol == "" {
		return Locator{}, &ValidationError{
			Field: "locator",
			Err:   fmt.Errorf("%w: %q", ErrInvalidLocator, s),
		}
	}
	return Locator{Module: module, Symbol: symbol}, nil
}

// TaskRecord is the persisted unit of schedule state.
type TaskRecord struct {
	Name            string    `gorm:"primaryKey;size:255"`
	Module          string    `gorm:"column:module_locator;size:255;not null"`
	Symbol          string    `gorm:"column:symbol_locator;size:255;not null"`
	IntervalSeconds int64     `gorm:"column:interval_seconds;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name so it survives struct renames.
func (TaskRecord) TableName() string { return "tasks" }

// Locator returns the record's function locator.
func (r TaskRecord) Locator() Locator {
	return Locator{Module: r.Module, Symbol: r.Symbol}
}

// Interval returns the record's interval as a duration.
func (r TaskRecord) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// Schedule returns the name/interval view of the record.
func (r TaskRecord) Schedule() Schedule {
	return Schedule{Name: r.Name, Interval: r.Interval()}
}

// NewTaskRecord builds a record for name, bound to loc, running every interval.
// The interval is truncated to whole seconds.
func NewTaskRecord(name string, loc Locator, interval time.Duration) *TaskRecord {
	return &TaskRecord{
		Name:            name,
		Module:          loc.Module,
		Symbol:          loc.Symbol,
		IntervalSeconds: int64(interval / time.Second),
	}
}

// Schedule is the name/interval view of a persisted task.
type Schedule struct {
	Name     string
	Interval time.Duration
}
