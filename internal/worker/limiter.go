package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound provider calls, one token bucket per provider.
// Shared between interactive submissions and batch workers so a batch run
// cannot starve the service quota.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 3
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the named provider may make another call.
func (l *Limiter) Wait(ctx context.Context, providerName string) error {
	return l.getLimiter(providerName).Wait(ctx)
}

// Allow reports whether a call is allowed right now, without waiting.
func (l *Limiter) Allow(providerName string) bool {
	return l.getLimiter(providerName).Allow()
}

// SetProviderRate overrides the rate for a specific provider.
func (l *Limiter) SetProviderRate(providerName string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[providerName] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) getLimiter(providerName string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[providerName]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[providerName]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[providerName] = limiter
	return limiter
}
