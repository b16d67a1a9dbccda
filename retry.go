package conceptcard

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls the caller-level retry of a whole analysis.
type RetryConfig struct {
	MaxRetries int           // Retries after the first try
	BaseDelay  time.Duration // Delay before the first retry, doubled each time
	MaxDelay   time.Duration // Upper bound for a single delay

	// OnRetry, when set, is told about each retry before its delay.
	OnRetry func(retry int, delay time.Duration, err error)
}

// DefaultRetryConfig returns the backoff used by the Retry action.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// Backoff returns the delay before retry n, counted from 1.
func (c RetryConfig) Backoff(n int) time.Duration {
	delay := c.BaseDelay
	for i := 1; i < n && delay < c.MaxDelay; i++ {
		delay *= 2
	}
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// RetryFunc is one try of a retried operation.
type RetryFunc[T any] func() (T, error)

// WithRetry runs fn until it succeeds, fails with an error IsRetryable
// rejects, or runs out of retries. Providers are never retried inside one
// orchestrated run; this automates the user's "Retry" action.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	for retry := 0; ; retry++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if retry >= cfg.MaxRetries || !IsRetryable(err) {
			return zero, err
		}

		delay := cfg.Backoff(retry + 1)
		if cfg.OnRetry != nil {
			cfg.OnRetry(retry+1, delay, err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether retrying the same request may help.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrSuperseded) {
		return false
	}

	var aerr *AnalysisError
	if errors.As(err, &aerr) {
		return aerr.Info.Retryable
	}

	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return false
	}

	return Classify(err, "").Retryable
}
