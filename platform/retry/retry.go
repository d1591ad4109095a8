// Package retry provides bounded retry with backoff for outbound calls.
// Call sites decide explicitly whether a final failure is surfaced or
// swallowed-and-logged; this package only retries.
package retry

import (
	"context"
	"time"
)

// Do runs fn up to attempts times, waiting delay between tries (doubling each
// time). It returns nil on the first success, the last error otherwise.
// The context cancels the wait between attempts.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return err
}
