// Package ratelimit throttles polling of upstream market data endpoints.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket sized from an exchange's per-minute request quota.
type Limiter struct {
	bucket *rate.Limiter
}

// PerMinute allows quota requests per minute with a burst of a tenth of the
// quota, at least one. A quota of zero or less never blocks.
func PerMinute(quota int) *Limiter {
	if quota <= 0 {
		return &Limiter{bucket: rate.NewLimiter(rate.Inf, 0)}
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Every(time.Minute/time.Duration(quota)), max(quota/10, 1)),
	}
}

// Wait blocks until the next request may go out or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// TryAcquire takes a token without blocking.
func (l *Limiter) TryAcquire() bool {
	return l.bucket.Allow()
}
