package api

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"sentinel/pkg/errors"
)

// ipLimiter applies a per-client token bucket to one route. Entries idle
// longer than the eviction window are dropped to bound memory.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterEviction = 3 * time.Hour

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*clientBucket),
		limit:   limit,
		burst:   burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterEviction {
			delete(l.clients, k)
		}
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// rateLimited wraps a handler with a per-client rate limit. A nil limiter
// disables limiting for the route.
func rateLimited(l *ipLimiter, next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			respondError(w, r, errors.Wrap(errors.ErrRateLimitExceeded, "rate limit exceeded, try again later"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
