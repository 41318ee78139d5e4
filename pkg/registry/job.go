package registry

import (
	"time"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/catalog"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/schedule"
)

// ScheduledJob is a snapshot of a live task.
type ScheduledJob struct {
	Name     string
	Locator  core.Locator
	Interval time.Duration
	NextRun  time.Time
	LastRun  time.Time
	Runs     int
	Failures int
}

// job is the registry-owned runtime state behind a ScheduledJob.
type job struct {
	ScheduledJob
	fn        catalog.Func
	sched     schedule.Schedule
	cancelled bool
}

func newJob(name string, loc core.Locator, fn catalog.Func, interval time.Duration, now time.Time) *job {
	sched := schedule.Every(interval)
	return &job{
		ScheduledJob: ScheduledJob{
			Name:     name,
			Locator:  loc,
			Interval: interval,
			NextRun:  sched.Next(now),
		},
		fn:    fn,
		sched: sched,
	}
}

func (j *job) due(now time.Time) bool {
	return !j.cancelled && !j.NextRun.After(now)
}
