package ai

import (
	"context"
	"sync"
	"time"

	"sentinel/pkg/errors"
)

// RateLimiter guards calls against the external model API.
type RateLimiter interface {
	// Wait blocks until a request can proceed or context is cancelled.
	Wait(ctx context.Context) error

	// Allow checks if a request can proceed without blocking.
	Allow() bool
}

// TokenBucketLimiter implements token bucket rate limiting.
// Thread-safe; suitable for single-instance deployments.
type TokenBucketLimiter struct {
	rate       float64   // Requests per second
	burst      int       // Maximum burst size
	tokens     float64   // Current available tokens
	lastUpdate time.Time // Last token refill time
	mu         sync.Mutex
}

// NewTokenBucketLimiter creates a token bucket limiter.
// reqPerMinute: maximum requests per minute; burst: maximum burst size.
func NewTokenBucketLimiter(reqPerMinute float64, burst int) *TokenBucketLimiter {
	if burst <= 0 {
		burst = int(reqPerMinute / 10)
		if burst < 1 {
			burst = 1
		}
	}

	return &TokenBucketLimiter{
		rate:       reqPerMinute / 60.0,
		burst:      burst,
		tokens:     float64(burst),
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or context is cancelled.
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		waitTime := time.Duration(float64(time.Second) / l.rate)

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "rate limiter wait cancelled")
		case <-time.After(waitTime):
		}
	}
}

// Allow checks if a request can proceed and consumes a token if available.
func (l *TokenBucketLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastUpdate).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.lastUpdate = now

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true
	}
	return false
}

// NoOpLimiter never blocks. Used when rate limiting is disabled or in tests.
type NoOpLimiter struct{}

// NewNoOpLimiter creates a limiter that always allows requests.
func NewNoOpLimiter() *NoOpLimiter { return &NoOpLimiter{} }

// Wait never blocks.
func (l *NoOpLimiter) Wait(ctx context.Context) error { return nil }

// Allow always returns true.
func (l *NoOpLimiter) Allow() bool { return true }
