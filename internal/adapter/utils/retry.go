package utils

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times with exponential backoff starting at
// baseWait and capped at maxWait. The last error is returned when every
// attempt fails; a canceled context cuts the wait short.
func Retry(ctx context.Context, attempts int, baseWait, maxWait time.Duration, fn func() error) error {
	var err error
	wait := baseWait
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			wait *= 2
			if wait > maxWait {
				wait = maxWait
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
