package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"foundry/internal/metrics"
	"foundry/pkg/errors"
)

// Limiter gates outbound remote tool invocations.
type Limiter interface {
	// Wait blocks until the call may proceed or the context is cancelled.
	Wait(ctx context.Context) error

	// Allow reports whether a call may proceed without blocking.
	Allow() bool
}

// NopLimiter performs no limiting.
type NopLimiter struct{}

func (NopLimiter) Wait(ctx context.Context) error { return nil }
func (NopLimiter) Allow() bool                    { return true }

// LocalLimiter is a single-process token bucket backed by golang.org/x/time.
type LocalLimiter struct {
	limiter *rate.Limiter
}

// NewLocalLimiter creates a limiter allowing reqPerMinute sustained calls
// with the given burst.
func NewLocalLimiter(reqPerMinute float64, burst int) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{
		limiter: rate.NewLimiter(rate.Limit(reqPerMinute/60.0), burst),
	}
}

// Wait blocks until a token is available or the context is done.
func (l *LocalLimiter) Wait(ctx context.Context) error {
	if l.limiter.Allow() {
		return nil
	}
	metrics.RateLimitHits.WithLabelValues("local").Inc()
	if err := l.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrRateLimitExceeded, err.Error())
	}
	return nil
}

// Allow consumes a token if one is available.
func (l *LocalLimiter) Allow() bool {
	return l.limiter.Allow()
}
