// Package security provides validation, sanitization, and limits for the scheduler.
//
// This package includes:
//   - Input validation for task names, locators, and intervals
//   - Error message sanitization before failures reach the log
//   - Clamping of retry counts to a safe limit
//
// Most users should import the root package github.com/c1nderscript/Cinder-s-Webscraper
// which re-exports these functions.
package security
