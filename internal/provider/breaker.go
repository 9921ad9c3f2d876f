package provider

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/Olamide1/leadengine/internal/lead"
)

// BreakerConfig tunes the per-provider circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive hard failures before the
	// circuit opens.
	MaxFailures uint32
	// Cooldown is how long the circuit stays open before allowing a probe.
	Cooldown time.Duration
}

// WithBreaker wraps a provider with a circuit breaker so that a backend
// failing hard on consecutive runs is skipped for a cooldown period instead
// of being hammered. Rate-limit and quota errors do not trip the breaker;
// they already carry their own skip semantics.
type breakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[[]lead.RawResult]
}

func WithBreaker(inner Provider, cfg BreakerConfig) Provider {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = 2 * time.Minute
	}
	cb := gobreaker.NewCircuitBreaker[[]lead.RawResult](gobreaker.Settings{
		Name:        "provider:" + inner.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("provider breaker state change")
		},
		IsSuccessful: func(err error) bool {
			// Only transient and fatal failures count against the
			// provider's health.
			if err == nil {
				return true
			}
			k := KindOf(err)
			return k == KindRateLimited || k == KindQuotaExceeded
		},
	})
	return &breakerProvider{inner: inner, breaker: cb}
}

func (b *breakerProvider) Name() string { return b.inner.Name() }

func (b *breakerProvider) Fetch(ctx context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	out, err := b.breaker.Execute(func() ([]lead.RawResult, error) {
		return b.inner.Fetch(ctx, intent, maxResults)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, Wrap(b.inner.Name(), KindFatal, err)
		}
		return nil, err
	}
	return out, nil
}
