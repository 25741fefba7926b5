package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/pkg/errors"
)

func TestNewConfig_Validation(t *testing.T) {
	base := Config{
		EndpointURL: "https://funcs.example.com/api/quote",
		AuthMode:    AuthStaticKey,
		AuthSecret:  "s3cret",
		Timeout:     30 * time.Second,
		MaxRetries:  3,
	}

	t.Run("valid config passes and fills defaults", func(t *testing.T) {
		cfg, err := NewConfig(base)
		require.NoError(t, err)
		assert.Equal(t, DefaultKeyHeader, cfg.AuthHeader)
		assert.Equal(t, defaultBackoffBase, cfg.BackoffBase)
		assert.Equal(t, defaultBackoffMax, cfg.BackoffMax)
	})

	t.Run("empty URL", func(t *testing.T) {
		c := base
		c.EndpointURL = "  "
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigMissingField)
	})

	t.Run("malformed URL", func(t *testing.T) {
		c := base
		c.EndpointURL = "://nope"
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidURL)
	})

	t.Run("non-http scheme", func(t *testing.T) {
		c := base
		c.EndpointURL = "ftp://funcs.example.com"
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidURL)
	})

	t.Run("static key without secret", func(t *testing.T) {
		c := base
		c.AuthSecret = ""
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidAuthCombination)
	})

	t.Run("secret with auth none", func(t *testing.T) {
		c := base
		c.AuthMode = AuthNone
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidAuthCombination)
	})

	t.Run("secret with managed identity", func(t *testing.T) {
		c := base
		c.AuthMode = AuthManagedIdentity
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidAuthCombination)
	})

	t.Run("zero timeout", func(t *testing.T) {
		c := base
		c.Timeout = 0
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidValue)
	})

	t.Run("negative retries", func(t *testing.T) {
		c := base
		c.MaxRetries = -1
		_, err := NewConfig(c)
		requireConfigKind(t, err, errors.ConfigInvalidValue)
	})

	t.Run("auth mode defaults to none", func(t *testing.T) {
		c := base
		c.AuthMode = ""
		c.AuthSecret = ""
		cfg, err := NewConfig(c)
		require.NoError(t, err)
		assert.Equal(t, AuthNone, cfg.AuthMode)
	})
}

func TestParseAuthMode(t *testing.T) {
	for in, want := range map[string]AuthMode{
		"":                 AuthNone,
		"none":             AuthNone,
		"static_key":       AuthStaticKey,
		" Managed_Identity": AuthManagedIdentity,
	} {
		mode, err := ParseAuthMode(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, mode)
	}

	_, err := ParseAuthMode("kerberos")
	require.Error(t, err)
}

func requireConfigKind(t *testing.T, err error, kind errors.ConfigKind) {
	t.Helper()
	require.Error(t, err)
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce), "expected ConfigError, got %T", err)
	assert.Equal(t, kind, ce.Kind)
}
