package functions

import (
	"context"
	"net/http"

	"foundry/internal/adapters/config"
	"foundry/internal/metrics"
	"foundry/internal/remote"
	"foundry/pkg/errors"
	"foundry/pkg/logger"
)

// Client invokes HTTP-triggered functions exposed by a function app. Routes
// are mounted under the /api prefix.
type Client struct {
	remote *remote.Client
	log    *logger.Logger
}

// NewClient builds a functions client from the app configuration.
func NewClient(cfg config.FunctionsConfig, opts ...remote.Option) (*Client, error) {
	mode, err := remote.ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}

	rc, err := remote.NewConfig(remote.Config{
		EndpointURL: cfg.BaseURL,
		AuthMode:    mode,
		AuthSecret:  cfg.FunctionKey,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
	})
	if err != nil {
		return nil, errors.Wrap(err, "functions client config")
	}

	return &Client{
		remote: remote.NewClient(rc, opts...),
		log:    logger.Get().With("component", "functions_client"),
	}, nil
}

// Remote exposes the underlying remote client for advanced callers.
func (c *Client) Remote() *remote.Client {
	return c.remote
}

// Invoke calls a named function route with the given arguments.
func (c *Client) Invoke(ctx context.Context, method, route string, args map[string]interface{}) remote.Result {
	if method == "" {
		method = http.MethodPost
	}

	c.log.Debugw("Invoking function", "route", route, "method", method)
	result := c.remote.CallRoute(ctx, method, "api/"+route, args)

	status := "success"
	if !result.OK() {
		status = string(result.ErrorKind)
	}
	metrics.RemoteCalls.WithLabelValues("functions", status).Inc()

	return result
}

// Health is the decoded health_check response.
type Health struct {
	Status      string                 `json:"status"`
	ServiceName string                 `json:"service_name"`
	Version     string                 `json:"version"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Healthy reports whether the service declared itself healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}

// HealthCheck calls the health_check function and decodes its payload.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	result := c.Invoke(ctx, http.MethodGet, "health_check", nil)
	if !result.OK() {
		return Health{}, errors.Wrapf(errors.ErrUnavailable, "health check failed: %s", result.ErrorMessage)
	}

	h := Health{}
	if v, ok := result.Output["status"].(string); ok {
		h.Status = v
	}
	if v, ok := result.Output["service_name"].(string); ok {
		h.ServiceName = v
	}
	if v, ok := result.Output["version"].(string); ok {
		h.Version = v
	}
	if v, ok := result.Output["details"].(map[string]interface{}); ok {
		h.Details = v
	}
	return h, nil
}
