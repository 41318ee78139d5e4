// Package schedule provides fixed-interval schedules for recurring tasks.
//
// This package includes:
//   - Schedule interface for defining when a task runs next
//   - Every() for fixed-interval schedules
//   - ParseInterval() for the interval strings accepted by the CLI and config:
//     bare seconds ("5"), Go durations ("90s", "1m"), and "@every <duration>"
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// which re-exports these functions.
package schedule
