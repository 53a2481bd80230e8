package ai

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"sentinel/pkg/errors"
)

// RedisRateLimiter implements distributed token bucket rate limiting via Redis.
// Thread-safe across multiple pods/instances.
type RedisRateLimiter struct {
	client      *redis.Client
	key         string
	rate        float64 // Requests per second
	burst       int     // Maximum burst size
	tokenScript *redis.Script
}

// Lua script for token bucket algorithm (atomic operation)
// KEYS[1] = token bucket key
// ARGV[1] = rate (tokens per second)
// ARGV[2] = burst (max tokens)
// ARGV[3] = current timestamp
// Returns: 1 if allowed, 0 if denied
const luaTokenBucketScript = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call('HMGET', key, 'tokens', 'last_update')
local tokens = tonumber(data[1])
local last_update = tonumber(data[2])

if not tokens then
    tokens = burst
    last_update = now
end

local elapsed = now - last_update
tokens = math.min(burst, tokens + elapsed * rate)

if tokens >= 1.0 then
    tokens = tokens - 1.0
    redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
    redis.call('EXPIRE', key, 3600)
    return 1
else
    redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
    redis.call('EXPIRE', key, 3600)
    return 0
end
`

// NewRedisRateLimiter creates a Redis-backed rate limiter for the given scope
// (e.g. "model" or an endpoint name).
func NewRedisRateLimiter(client *redis.Client, scope string, reqPerMinute float64, burst int) *RedisRateLimiter {
	if burst <= 0 {
		burst = int(reqPerMinute / 10)
		if burst < 1 {
			burst = 1
		}
	}

	return &RedisRateLimiter{
		client:      client,
		key:         "rate_limit:" + scope,
		rate:        reqPerMinute / 60.0,
		burst:       burst,
		tokenScript: redis.NewScript(luaTokenBucketScript),
	}
}

// Allow checks if a request can proceed, consuming a token if available.
// Fails open on Redis errors so a cache outage does not take the API down.
func (l *RedisRateLimiter) Allow() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	now := float64(time.Now().UnixNano()) / float64(time.Second)
	result, err := l.tokenScript.Run(ctx, l.client, []string{l.key}, l.rate, l.burst, now).Int()
	if err != nil {
		return true
	}
	return result == 1
}

// Wait blocks until a token is available or context is cancelled.
func (l *RedisRateLimiter) Wait(ctx context.Context) error {
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
