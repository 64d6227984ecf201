package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork is returned when a remote backend cannot be reached.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks a failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so that [Backoff.Do] retries it. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry policy for remote backends.
type Backoff struct {
	Attempts int           // Total calls, including the first
	Initial  time.Duration // Wait before the second call; doubles afterwards
}

// DefaultBackoff is used when a backend is configured without a policy.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 200 * time.Millisecond}

func (b Backoff) orDefault() Backoff {
	if b.Attempts <= 0 {
		return DefaultBackoff
	}
	return b
}

// Do calls fn until it succeeds, returns an error not marked Retryable, the
// attempts run out or ctx is done. It returns the last error.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	b = b.orDefault()
	delay := b.Initial

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
