package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for cache operations.
var (
	// ErrNotFound reports a key that does not exist in the backend.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a backend failure (timeout, refused connection).
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss reports an absent or expired entry.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks an error as transient. The redis backend wraps
// network failures with it so RetryWithBackoff knows which errors are
// worth another attempt; a decode failure or a miss never is.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the wrapped error's message.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts from one second. Only retryable errors re-run fn; the context
// aborts the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
