package utils

import (
	"context"
	"errors"
	"time"
)

// ErrRetryExhausted is returned when every attempt failed with a
// retryable error. The last attempt's error is wrapped.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// Retryable marks an error as transient so Retry tries again.
// Non-retryable errors abort immediately and propagate unchanged.
func Retryable(err error) error {
	return &retryableError{err: err}
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retry runs fn up to attempts times, sleeping base, 2*base, 4*base...
// between tries. Only errors marked with Retryable are retried. The
// backoff bound exists so a bursty set of concurrent callers cannot
// hold a caller up indefinitely; exhaustion wraps the last error in
// ErrRetryExhausted. Context cancellation aborts the wait.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var lastErr error
	backoff := base
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}

		err := fn()
		if err == nil {
			return nil
		}
		var re *retryableError
		if !errors.As(err, &re) {
			return err
		}
		lastErr = re.err
	}
	return errors.Join(ErrRetryExhausted, lastErr)
}
