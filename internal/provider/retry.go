package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Backoff bounds the retry loop shared by every adapter. Attempts includes
// the initial call; delays grow exponentially from Initial and are capped
// at Max.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff keeps retries short enough that a dead backend does not
// stall the whole provider chain.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 500 * time.Millisecond, Max: 8 * time.Second}

// Do runs fn up to b.Attempts times, sleeping between attempts, and retries
// only errors classified as transient. Rate-limit, quota, and fatal errors
// return immediately, as does context cancellation.
func Do[T any](ctx context.Context, b Backoff, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := b.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := b.Initial
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if KindOf(err) != KindTransient || i == attempts-1 {
			return zero, err
		}
		log.Debug().Err(err).Int("attempt", i+1).Dur("sleep", delay).Msg("transient failure, backing off")
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return zero, lastErr
}
