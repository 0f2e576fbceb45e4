package displayqueue

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

const defaultMaxRetries = 3

var baseBackoff = 100 * time.Millisecond

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff
}

// withRetry runs fn up to maxRetries times with exponential backoff.
func withRetry[T any](ctx context.Context, maxRetries int, decisionID string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff(attempt)
			slog.DebugContext(ctx, "retrying display dispatch",
				slog.String("decision_id", decisionID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
			)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for display dispatch",
		slog.String("decision_id", decisionID),
		slog.Int("max_retries", maxRetries),
		slog.String("error", lastErr.Error()),
	)

	return zero, fmt.Errorf("failed to dispatch display task after %d retries: %w", maxRetries, lastErr)
}
