// Package worker provides the poller that drives a task registry.
//
// This package includes:
//   - Worker: Calls RunPending on a fixed poll interval
//   - WorkerOption: Configuration options for workers
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// which wires a worker to a registry through cinder.NewWorker().
package worker
