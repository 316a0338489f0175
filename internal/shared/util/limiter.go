package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound registry calls with a token bucket.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a limiter allowing r requests per second with the given
// burst size.
func NewLimiter(r float64, burst int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), burst),
	}
}

// Allow reports whether a request may be sent right now.
func (l *Limiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until the next request may be sent or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.WaitN(ctx, 1)
}
