package remote

import (
	"net/url"
	"strings"
	"time"

	"foundry/pkg/errors"
)

// AuthMode selects how the client authenticates against the remote endpoint.
type AuthMode string

const (
	// AuthNone sends no credentials.
	AuthNone AuthMode = "none"
	// AuthStaticKey sends a fixed secret in a configurable header.
	AuthStaticKey AuthMode = "static_key"
	// AuthManagedIdentity obtains a bearer token from a TokenProvider.
	AuthManagedIdentity AuthMode = "managed_identity"
)

// DefaultKeyHeader is the header used for static-key auth when none is
// configured. It matches the function-key convention of serverless platforms.
const DefaultKeyHeader = "x-functions-key"

const (
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffMax  = 10 * time.Second
)

// Config describes one remote tool endpoint. Construct through NewConfig,
// which validates eagerly; instances are immutable afterwards and safe to
// share between goroutines.
type Config struct {
	EndpointURL string
	AuthMode    AuthMode
	AuthHeader  string
	AuthSecret  string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// ParseAuthMode maps a configuration string onto an AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case AuthNone, "":
		return AuthNone, nil
	case AuthStaticKey:
		return AuthStaticKey, nil
	case AuthManagedIdentity:
		return AuthManagedIdentity, nil
	default:
		return "", errors.NewConfigError(errors.ConfigInvalidValue, "auth_mode", "must be one of none, static_key, managed_identity")
	}
}

// NewConfig validates raw configuration values and returns an immutable
// endpoint config. A secret is required for static key auth and rejected
// for every other mode.
func NewConfig(raw Config) (*Config, error) {
	cfg := raw

	if strings.TrimSpace(cfg.EndpointURL) == "" {
		return nil, errors.NewConfigError(errors.ConfigMissingField, "endpoint_url", "endpoint URL is required")
	}

	u, err := url.Parse(cfg.EndpointURL)
	if err != nil || u.Host == "" {
		return nil, errors.NewConfigError(errors.ConfigInvalidURL, "endpoint_url", "not a well-formed URL: "+cfg.EndpointURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NewConfigError(errors.ConfigInvalidURL, "endpoint_url", "scheme must be http or https, got "+u.Scheme)
	}

	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthNone
	}
	switch cfg.AuthMode {
	case AuthNone, AuthManagedIdentity:
		if cfg.AuthSecret != "" {
			return nil, errors.NewConfigError(errors.ConfigInvalidAuthCombination, "auth_secret",
				"auth secret must not be set for auth mode "+string(cfg.AuthMode))
		}
	case AuthStaticKey:
		if strings.TrimSpace(cfg.AuthSecret) == "" {
			return nil, errors.NewConfigError(errors.ConfigInvalidAuthCombination, "auth_secret",
				"auth secret is required for static_key auth")
		}
		if cfg.AuthHeader == "" {
			cfg.AuthHeader = DefaultKeyHeader
		}
	default:
		return nil, errors.NewConfigError(errors.ConfigInvalidValue, "auth_mode", "unknown auth mode "+string(cfg.AuthMode))
	}

	if cfg.Timeout <= 0 {
		return nil, errors.NewConfigError(errors.ConfigInvalidValue, "timeout", "timeout must be positive")
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.NewConfigError(errors.ConfigInvalidValue, "max_retries", "retry count must not be negative")
	}

	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = defaultBackoffMax
	}

	return &cfg, nil
}
