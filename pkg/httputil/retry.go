package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. Fetch wraps network
// faults and 5xx responses in it so [Retry] tries the asset again;
// anything unwrapped (a 404, a decode failure) stops the loop on the
// first attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay between tries.
// Only errors carrying [RetryableError] are retried; the rest return
// as-is from the first attempt. When every attempt fails the last
// error comes back, and a cancelled ctx wins over waiting out a delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)

	for i := 1; ; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) || i == attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
