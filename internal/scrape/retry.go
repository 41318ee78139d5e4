package scrape

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// RetryConfig holds configuration for retry with backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	// Default: 3
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	// Default: 500ms
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	// Default: 10s
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier applied to backoff after each attempt.
	// Default: 2.0
	BackoffMultiplier float64

	// JitterFraction is the fraction of backoff to randomize (0.0 to 1.0).
	// Default: 0.2
	JitterFraction float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFraction:    0.2,
	}
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scrape %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// retryWithBackoff executes the operation with exponential backoff on failure.
// It respects context cancellation and returns the last error if all attempts
// fail or the error is not retryable.
func retryWithBackoff(ctx context.Context, config RetryConfig, operation func(attempt int) error) error {
	var lastErr error
	backoff := config.InitialBackoff
	attempts := max(config.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = operation(attempt)
		if lastErr == nil {
			return nil
		}

		if !IsRetryableError(lastErr) {
			return lastErr
		}

		if attempt >= attempts {
			break
		}

		// Calculate backoff with jitter
		jitter := time.Duration(float64(backoff) * config.JitterFraction * (rand.Float64()*2 - 1))
		sleepDuration := backoff + jitter
		if sleepDuration < 0 {
			sleepDuration = backoff
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepDuration):
		}

		backoff = time.Duration(float64(backoff) * config.BackoffMultiplier)
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	return lastErr
}

// IsRetryableError determines if an error is worth retrying.
// Client errors other than 429 Too Many Requests are permanent.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var status *StatusError
	if errors.As(err, &status) {
		if status.Code == http.StatusTooManyRequests {
			return true
		}
		return status.Code < 400 || status.Code >= 500
	}

	// Network errors and timeouts are usually transient.
	return true
}
