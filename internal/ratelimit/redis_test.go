package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foundry/internal/ratelimit"
	"foundry/internal/testsupport"
)

func TestRedisLimiter_Integration(t *testing.T) {
	cfg := testsupport.LoadRedisConfigFromEnv(t)
	client := testsupport.NewRedisClient(t, cfg)

	limiter := ratelimit.NewRedisLimiter(client, "test", 60, 3)

	// Burst capacity admits the first requests
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(), "request %d should be admitted", i)
	}

	// Bucket is drained
	assert.False(t, limiter.Allow())
}
