package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-provider rate limiting for oracle calls.
// Each provider name gets its own token bucket.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A requestsPerSecond of 0 or
// less disables limiting (infinite rate).
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the named provider may issue another call
func (l *Limiter) Wait(ctx context.Context, name string) error {
	return l.getLimiter(name).Wait(ctx)
}

// Allow checks if a call is allowed without waiting
func (l *Limiter) Allow(name string) bool {
	return l.getLimiter(name).Allow()
}

// SetRate sets a custom rate limit for a specific provider
func (l *Limiter) SetRate(name string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[name] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// getLimiter returns the rate limiter for a provider name
func (l *Limiter) getLimiter(name string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[name]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[name]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[name] = limiter

	return limiter
}
