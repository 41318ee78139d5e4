// Package core provides the fundamental types and interfaces for the scheduler.
//
// This package contains:
//   - TaskRecord, the persisted form of a recurring task, with GORM annotations
//   - Locator, the catalog key that identifies a task's function across restarts
//   - Store interface defining the persistence contract
//   - RunResult, the per-invocation outcome reported by the registry
//   - Error types for validation, persistence, and locator resolution
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// instead of this package directly.
package core
