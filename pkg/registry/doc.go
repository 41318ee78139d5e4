// Package registry provides the Registry, which owns the live set of
// recurring tasks and keeps it in step with a core.Store.
//
// This package includes:
//   - Registry: add, remove, update, and list tasks with write-through persistence
//   - Startup reconciliation that rebuilds jobs from persisted records, keeping
//     records whose locator no longer resolves as orphans
//   - RunPending: synchronous execution of due tasks with per-task error capture
//   - Hook registration for task outcomes
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// which re-exports Registry and its options.
package registry
