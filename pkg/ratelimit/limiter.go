package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between two API calls
const DefaultInterval = 340 * time.Millisecond

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until another request is allowed or ctx is done
	Wait(ctx context.Context) error
}

// Fixed enforces a fixed minimum interval between calls. No jitter and no
// adaptive backoff: a call that failed is followed by the same delay.
type Fixed struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewFixed creates a limiter spacing calls at least interval apart.
// A non-positive interval disables waiting.
func NewFixed(interval time.Duration) *Fixed {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Fixed{
		interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Interval returns the configured spacing
func (f *Fixed) Interval() time.Duration {
	return f.interval
}

// Wait blocks until interval has elapsed since the previous call
func (f *Fixed) Wait(ctx context.Context) error {
	return f.limiter.Wait(ctx)
}

// Scaled waits on the underlying limiter factor times, which stretches the
// spacing for expensive call sites while sharing the same call history.
type Scaled struct {
	base   Limiter
	factor int
}

// NewScaled wraps base with a multiplier. Factors below 1 are treated as 1.
func NewScaled(base Limiter, factor int) *Scaled {
	if factor < 1 {
		factor = 1
	}
	return &Scaled{base: base, factor: factor}
}

// Wait implements Limiter
func (s *Scaled) Wait(ctx context.Context) error {
	for i := 0; i < s.factor; i++ {
		if err := s.base.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
