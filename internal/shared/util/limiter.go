package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter to bound how fast archive scans are
// admitted. A zero rate means unlimited.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket limiter admitting r scans per
// second with burst b.
func NewLimiter(r float64, b int) *Limiter {
	if r <= 0 {
		return &Limiter{}
	}
	if b < 1 {
		b = 1
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(r), b)}
}

// Allow reports whether one scan may start now.
func (l *Limiter) Allow() bool {
	if l.inner == nil {
		return true
	}
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until a scan may start or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.inner == nil {
		return ctx.Err()
	}
	return l.inner.WaitN(ctx, 1)
}
