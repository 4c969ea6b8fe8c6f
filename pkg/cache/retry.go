package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that a remote cache stayed unreachable after all
// retries.
var ErrUnavailable = errors.New("cache unavailable")

// transient marks a failure that may succeed when tried again, such as a
// dropped connection or a timeout.
type transient struct{ err error }

func (t transient) Error() string { return t.err.Error() }
func (t transient) Unwrap() error { return t.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{err}
}

// IsRetryable reports whether err or anything it wraps went through
// Retryable.
func IsRetryable(err error) bool {
	return errors.As(err, new(transient))
}

// RetryWithBackoff calls fn until it succeeds, returns a permanent error or
// has been called attempts times. The pause before each retry starts at
// delay and doubles.
func RetryWithBackoff(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	for n := 1; ; n++ {
		err := fn()
		if err == nil || !IsRetryable(err) || n >= attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
