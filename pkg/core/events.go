package core

import "time"

// RunResult is the outcome of one invocation of a scheduled task.
type RunResult struct {
	RunID     string
	Name      string
	Locator   Locator
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// OK reports whether the invocation succeeded.
func (r RunResult) OK() bool {
	return r.Err == nil
}
