package testsupport

import (
	"os"
	"testing"

	"foundry/internal/adapters/config"
)

// LoadRedisConfigFromEnv reads minimal Redis configuration for integration
// tests. Tests are skipped when REDIS_ADDR is not set.
func LoadRedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("integration environment missing, set REDIS_ADDR to run")
	}

	return config.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}
