package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"foundry/pkg/logger"
)

// maxErrorBodyBytes bounds how much of a remote error body is kept for
// diagnostics.
const maxErrorBodyBytes = 500

// Limiter gates outbound calls. Declared here (consumer side) so the client
// does not depend on a concrete rate limiter implementation.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client invokes one configured remote tool endpoint over HTTP. It owns the
// retry policy, auth header injection and response decoding. Every failure
// mode is funneled into a typed Result; nothing escapes Call as an error.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	tokens     TokenProvider
	limiter    Limiter
	log        *logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The per-attempt
// deadline still comes from the endpoint config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenProvider wires the bearer token source for managed-identity auth.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithLimiter gates fresh calls (not individual retry attempts) through the
// given rate limiter.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient builds a client for a validated endpoint config.
func NewClient(cfg *Config, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        logger.Get().With("component", "remote_client", "endpoint", cfg.EndpointURL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the endpoint configuration the client was built with.
func (c *Client) Config() *Config {
	return c.cfg
}

// CallSync is the blocking form of Call with identical semantics.
func (c *Client) CallSync(args map[string]interface{}) Result {
	return c.Call(context.Background(), args)
}

// Call POSTs the arguments as JSON to the configured endpoint and decodes
// the response. Connection failures and 5xx responses are retried with
// doubling backoff up to the configured budget; 4xx responses and credential
// failures are surfaced immediately. Cancelling ctx aborts the in-flight
// request and suppresses further retries.
func (c *Client) Call(ctx context.Context, args map[string]interface{}) Result {
	return c.call(ctx, http.MethodPost, "", args)
}

// CallRoute behaves like Call but appends a sub-path to the endpoint URL,
// for endpoints that multiplex several operations under one base URL.
func (c *Client) CallRoute(ctx context.Context, method, route string, args map[string]interface{}) Result {
	return c.call(ctx, method, route, args)
}

// GetURL fetches an absolute URL (e.g. a polling location returned by an
// asynchronous trigger) with the client's auth and retry policy.
func (c *Client) GetURL(ctx context.Context, url string) Result {
	return c.callURL(ctx, http.MethodGet, url, nil)
}

func (c *Client) call(ctx context.Context, method, route string, args map[string]interface{}) Result {
	target := c.cfg.EndpointURL
	if route != "" {
		target = joinURL(target, route)
	}
	return c.callURL(ctx, method, target, args)
}

func (c *Client) callURL(ctx context.Context, method, target string, args map[string]interface{}) Result {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return c.contextFailure(ctx, 0)
			}
			return Failure(ErrorInternal, "rate limiter: "+err.Error())
		}
	}

	var body []byte
	if method != http.MethodGet {
		if args == nil {
			args = map[string]interface{}{}
		}
		var err error
		body, err = json.Marshal(args)
		if err != nil {
			return Failure(ErrorInvalidArguments, "encode arguments: "+err.Error())
		}
	}

	if method == http.MethodGet && len(args) > 0 {
		q := neturl.Values{}
		for k, v := range args {
			q.Set(k, fmt.Sprint(v))
		}
		target += "?" + q.Encode()
	}

	var last Result
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return c.contextFailure(ctx, attempt)
		}

		if attempt > 0 {
			delay := backoffDelay(c.cfg.BackoffBase, c.cfg.BackoffMax, attempt)
			c.log.Debugf("Retrying remote call in %v (attempt %d/%d)", delay, attempt+1, c.cfg.MaxRetries+1)
			select {
			case <-ctx.Done():
				return c.contextFailure(ctx, attempt)
			case <-time.After(delay):
			}
		}

		result, retryable := c.attempt(ctx, method, target, body)
		result.Attempts = attempt + 1
		if !retryable {
			return result
		}
		last = result
	}

	c.log.Warnf("Remote call failed after %d attempts: %s", last.Attempts, last.ErrorMessage)
	return last
}

// attempt performs a single HTTP round trip. The second return value reports
// whether the failure is worth retrying.
func (c *Client) attempt(ctx context.Context, method, url string, body []byte) (Result, bool) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, method, url, bytes.NewReader(body))
	if err != nil {
		return Failure(ErrorInternal, "build request: "+err.Error()), false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := c.authorize(attemptCtx, req); err != nil {
		return Failure(ErrorCredential, err.Error()), false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The caller's context takes precedence over the attempt deadline.
		if ctx.Err() != nil {
			res := c.contextFailure(ctx, 0)
			return res, false
		}
		if attemptCtx.Err() == context.DeadlineExceeded {
			return Failure(ErrorTimeout, fmt.Sprintf("request exceeded %v deadline", c.cfg.Timeout)), true
		}
		return Failure(ErrorNetwork, err.Error()), true
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		res := c.decodeSuccess(resp)
		res.Location = resp.Header.Get("Location")
		return res, false

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		res := Failure(ErrorClient, fmt.Sprintf("remote returned %d: %s", resp.StatusCode, snippet(resp.Body)))
		res.StatusCode = resp.StatusCode
		return res, false

	default:
		res := Failure(ErrorServer, fmt.Sprintf("remote returned %d: %s", resp.StatusCode, snippet(resp.Body)))
		res.StatusCode = resp.StatusCode
		return res, true
	}
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	switch c.cfg.AuthMode {
	case AuthNone:
		return nil
	case AuthStaticKey:
		req.Header.Set(c.cfg.AuthHeader, c.cfg.AuthSecret)
		return nil
	case AuthManagedIdentity:
		if c.tokens == nil {
			return fmt.Errorf("managed identity auth configured but no token provider wired")
		}
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		return nil
	default:
		return fmt.Errorf("unsupported auth mode %q", c.cfg.AuthMode)
	}
}

// decodeSuccess interprets a 2xx response. An empty body counts as an empty
// output payload: some endpoints legitimately return no content on success.
func (c *Client) decodeSuccess(resp *http.Response) Result {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		res := Failure(ErrorNetwork, "read response body: "+err.Error())
		res.StatusCode = resp.StatusCode
		return res
	}

	if len(bytes.TrimSpace(data)) == 0 {
		res := Success(nil)
		res.StatusCode = resp.StatusCode
		return res
	}

	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		res := Failure(ErrorInternal, "remote returned malformed JSON: "+err.Error())
		res.StatusCode = resp.StatusCode
		return res
	}

	output, ok := decoded.(map[string]interface{})
	if !ok {
		// Non-object payloads (arrays, scalars) are passed through wrapped,
		// keeping Output uniformly shaped for the runtime.
		output = map[string]interface{}{"result": decoded}
	}

	res := Success(output)
	res.StatusCode = resp.StatusCode
	return res
}

func (c *Client) contextFailure(ctx context.Context, attempts int) Result {
	var res Result
	if ctx.Err() == context.DeadlineExceeded {
		res = Failure(ErrorTimeout, "call deadline exceeded")
	} else {
		res = Failure(ErrorCancelled, "call cancelled by caller")
	}
	if attempts > 0 {
		res.Attempts = attempts
	}
	return res
}

// backoffDelay doubles the base delay per attempt, capped at max.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d <= 0 {
		return max
	}
	return d
}

func snippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return string(data)
}

func joinURL(base, route string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	for len(route) > 0 && route[0] == '/' {
		route = route[1:]
	}
	return base + "/" + route
}
