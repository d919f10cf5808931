// Package retry implements a small bounded retry policy. The policy is
// passed in as configuration rather than hidden inside calls, so retry
// behavior stays testable and tunable.
package retry

import (
	"context"
	"time"
)

// Policy bounds how often an operation is retried after its first failure.
type Policy struct {
	Attempts int           // additional attempts after the first call
	Delay    time.Duration // fixed backoff before each retry
}

// Do runs fn, retrying up to p.Attempts extra times with a fixed delay, but
// only while retryable(err) holds. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
