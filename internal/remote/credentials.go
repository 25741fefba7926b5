package remote

import (
	"context"
	"os"

	"foundry/pkg/errors"
)

// TokenProvider supplies bearer tokens for managed-identity auth. The actual
// identity plumbing lives with the hosting platform; this layer only asks
// for a token per call and never retries acquisition failures itself.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed token. Useful for tests and for SAS
// tokens minted out of band.
type StaticTokenProvider string

// Token returns the fixed token.
func (p StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p == "" {
		return "", errors.Wrap(errors.ErrCredential, "static token is empty")
	}
	return string(p), nil
}

// EnvTokenProvider reads the token from an environment variable on every
// call, picking up platform-injected rotations.
type EnvTokenProvider struct {
	Var string
}

// Token reads the configured environment variable.
func (p EnvTokenProvider) Token(ctx context.Context) (string, error) {
	tok := os.Getenv(p.Var)
	if tok == "" {
		return "", errors.Wrapf(errors.ErrCredential, "environment variable %s is not set", p.Var)
	}
	return tok, nil
}
