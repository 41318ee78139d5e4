// Package security provides validation, sanitization, and limits for the scheduler.
package security

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// Security limits and configuration
const (
	// MaxTaskNameLength is the maximum length for task names and locator parts
	MaxTaskNameLength = 255

	// MaxRetries is the hard limit for retry attempts
	MaxRetries = 100

	// MaxErrorMessageLength is the maximum length for logged error messages
	MaxErrorMessageLength = 4096

	// MaxInterval bounds task intervals to something a 64-bit second count and
	// time.Duration can both hold comfortably (about 10 years).
	MaxInterval = 10 * 365 * 24 * time.Hour
)

// validName matches alphanumeric, hyphens, underscores, and dots
var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-\.]*$`)

func checkName(name string) error {
	if name == "" {
		return core.ErrInvalidTaskName
	}
	if len(name) > MaxTaskNameLength {
		return core.ErrTaskNameTooLong
	}
	if !validName.MatchString(name) {
		return core.ErrInvalidTaskName
	}
	return nil
}

// ValidateTaskName validates a task name
func ValidateTaskName(name string) error {
	if err := checkName(name); err != nil {
		return &core.ValidationError{Field: "name", Err: err}
	}
	return nil
}

// ValidateLocator validates both parts of a locator
func ValidateLocator(loc core.Locator) error {
	if err := checkName(loc.Module); err != nil {
		return &core.ValidationError{Field: "locator module", Err: err}
	}
	if err := checkName(loc.Symbol); err != nil {
		return &core.ValidationError{Field: "locator symbol", Err: err}
	}
	return nil
}

// ValidateInterval requires a positive whole number of seconds
func ValidateInterval(d time.Duration) error {
	if d < time.Second || d%time.Second != 0 || d > MaxInterval {
		return &core.ValidationError{
			Field: "interval",
			Err:   fmt.Errorf("%w: got %v", core.ErrInvalidInterval, d),
		}
	}
	return nil
}

// SanitizeErrorMessage truncates and strips control characters from error messages
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	// Remove any null bytes or control characters (except newlines)
	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}

	return result
}

// ClampRetries ensures retry count is within limits
func ClampRetries(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxRetries {
		return MaxRetries
	}
	return n
}
