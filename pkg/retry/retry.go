// Package retry provides a bounded retry-with-delay primitive expressed as
// an explicit loop, so retry state stays inspectable and stack depth stays
// constant.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Do runs fn up to attempts times, waiting delay between consecutive
// attempts. It returns nil as soon as fn succeeds, the last error once
// attempts are exhausted, or the context error if ctx is done during a
// delay.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		return fmt.Errorf("retry: attempts must be at least 1, got %d", attempts)
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry interrupted after %d attempts: %w", attempt-1, ctx.Err())
			case <-timer.C:
			}
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
