package ingest

import (
	"context"
	"time"

	"github.com/fwojciec/scddb"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc[T any] func(ctx context.Context, url string) (T, error)

// LogFunc is the signature for a logging function.
type LogFunc func(msg string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch until it succeeds, waiting delays[i]
// before retry i+1. A not-found error is final and is returned at once.
func FetchWithRetryDelays[T any](ctx context.Context, url string, fetch FetchFunc[T], logf LogFunc, delays []time.Duration) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fetch(ctx, url)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if scddb.ErrorCode(err) == scddb.ENOTFOUND || attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logf != nil {
			logf("retry", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
