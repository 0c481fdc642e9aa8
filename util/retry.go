package util

import (
	"context"
	"fmt"
	"time"
)

// RetryContext calls f up to maxRetries+1 times, waiting d between failed attempts.
func RetryContext[T any](ctx context.Context, f func(context.Context) (T, error), maxRetries int, d time.Duration) (v T, err error) {
	for i := 0; i <= maxRetries; i++ {
		if v, err = f(ctx); err == nil {
			return v, nil
		} else if i == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return *new(T), ctx.Err()
		case <-time.After(d):
		}
	}
	if maxRetries == 0 {
		return v, err
	}
	return v, fmt.Errorf("max retries reached: %w", err)
}
