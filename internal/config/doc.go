// Package config loads the application config file and watches it for changes.
//
// YAML and JSON are both accepted. YAML is converted to JSON first so one
// strict decoder (unknown fields rejected) serves both formats.
package config
