package core

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrInvalidTaskName  = errors.New("cinder: invalid task name (must be alphanumeric, start with letter)")
	ErrTaskNameTooLong  = errors.New("cinder: task name too long")
	ErrInvalidInterval  = errors.New("cinder: interval must be a positive whole number of seconds")
	ErrInvalidLocator   = errors.New("cinder: invalid locator (want module:symbol)")
	ErrUnregisteredFunc = errors.New("cinder: function is not registered in the job catalog")
	ErrNilFunc          = errors.New("cinder: task function cannot be nil")
)

// Store and registry errors
var (
	ErrNotFound         = errors.New("cinder: task not found")
	ErrDuplicateName    = errors.New("cinder: task name already exists")
	ErrDuplicateLocator = errors.New("cinder: locator already registered")
	ErrUnknownLocator   = errors.New("cinder: locator not found in job catalog")
	ErrPersistence      = errors.New("cinder: persistence failure")
	ErrClosed           = errors.New("cinder: registry is closed")
)

// ValidationError reports bad input rejected before any mutation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DuplicateNameError is returned by a strict create when the name is taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("cinder: task %q already exists", e.Name)
}

// Is lets errors.Is(err, ErrDuplicateName) match.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// PersistenceError wraps a failure of the durable store.
type PersistenceError struct {
	Op   string
	Name string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("cinder: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cinder: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// ResolutionError reports a locator that does not resolve to a catalog function.
type ResolutionError struct {
	Locator Locator
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cinder: resolve %s: %v", e.Locator, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Persist wraps err as a PersistenceError for op on name. Nil stays nil.
func Persist(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Name: name, Err: err}
}
