package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"foundry/internal/metrics"
	"foundry/pkg/errors"
)

// RedisLimiter implements a distributed token bucket via Redis, so that the
// outbound budget is shared across gateway replicas.
type RedisLimiter struct {
	client      *redis.Client
	scope       string
	rate        float64 // tokens per second
	burst       int
	key         string
	tokenScript *redis.Script
}

// Lua script for the token bucket (atomic operation)
// KEYS[1] = bucket key
// ARGV[1] = rate (tokens per second)
// ARGV[2] = burst (max tokens)
// ARGV[3] = current timestamp (seconds, float)
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

// NewRedisLimiter creates a Redis-backed limiter. scope distinguishes
// independent budgets (e.g. one per remote endpoint).
func NewRedisLimiter(client *redis.Client, scope string, reqPerMinute float64, burst int) *RedisLimiter {
	if burst <= 0 {
		burst = int(reqPerMinute / 10)
		if burst < 1 {
			burst = 1
		}
	}

	return &RedisLimiter{
		client:      client,
		scope:       scope,
		rate:        reqPerMinute / 60.0,
		burst:       burst,
		key:         fmt.Sprintf("rate_limit:tools:%s", scope),
		tokenScript: redis.NewScript(luaTokenBucketScript),
	}
}

// Allow atomically consumes a token if available. Redis errors fail open:
// a limiter outage must not take tool invocation down with it.
func (l *RedisLimiter) Allow() bool {
	now := float64(time.Now().UnixNano()) / float64(time.Second)

	res, err := l.tokenScript.Run(context.Background(), l.client,
		[]string{l.key}, l.rate, l.burst, now).Int()
	if err != nil {
		return true
	}
	return res == 1
}

// Wait polls Allow with the refill interval until a token is granted or the
// context is done.
func (l *RedisLimiter) Wait(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / l.rate)
	if interval <= 0 || interval > time.Second {
		interval = time.Second
	}

	denied := false
	for {
		if l.Allow() {
			return nil
		}
		if !denied {
			metrics.RateLimitHits.WithLabelValues(l.scope).Inc()
			denied = true
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "rate limiter wait cancelled for scope %s", l.scope)
		case <-time.After(interval):
		}
	}
}
