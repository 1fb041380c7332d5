package pipeline

import (
	"context"
	"time"

	"market-movers/internal/logger"
)

// retry runs fn up to attempts times with a fixed backoff between tries.
// Context cancellation stops retrying immediately.
func retry(ctx context.Context, attempts int, backoff time.Duration, label string, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		logger.Warn(ctx, "Operation failed, retrying",
			"operation", label,
			"attempt", i,
			"max_attempts", attempts,
			"backoff", backoff.String(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
