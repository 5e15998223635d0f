package cache

import (
	"context"
	"errors"
	"time"
)

// transientError marks a backend failure that is worth another attempt.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// transient marks err as retryable. A nil err stays nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

// isTransient reports whether err or anything it wraps was marked transient.
func isTransient(err error) bool {
	return errors.As(err, new(transientError))
}

// backoff is the wait after the first failed attempt. It doubles each time.
var backoff = 100 * time.Millisecond

const maxAttempts = 3

// withRetry calls fn until it succeeds, returns a non-transient error, or
// maxAttempts is reached. The error returned is the last one from fn, or the
// context's error if ctx ends while waiting.
func withRetry(ctx context.Context, fn func() error) error {
	wait := backoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !isTransient(err) || attempt == maxAttempts {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
