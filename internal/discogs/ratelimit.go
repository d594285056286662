package discogs

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum delay between outbound requests matching a
// requests-per-minute budget. Backed by [rate.Limiter] with a burst of one, so
// back-to-back callers are never granted slots faster than the configured rate.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter for the given requests-per-minute budget.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// WaitForNextSlot blocks until the minimum delay since the last granted slot
// has elapsed, then records the grant. Returns early with the context's error
// if the context is cancelled while waiting.
func (r *RateLimiter) WaitForNextSlot(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
