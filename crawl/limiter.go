package crawl

import (
	"context"

	"github.com/fwojciec/keiba"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond paces requests to the race database.
const DefaultRequestsPerSecond = 1.0

var _ keiba.RateLimiter = (*Limiter)(nil)

// Limiter paces requests with a token bucket. Bursting is not allowed, so
// concurrent workers share a single request rate.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a new Limiter allowing rps requests per second.
// A non-positive rps disables pacing.
func NewLimiter(rps float64) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the rate limit allows a request.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
