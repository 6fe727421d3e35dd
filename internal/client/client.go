package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/asutoshsabat91/adventureos/internal/cache"
	"github.com/asutoshsabat91/adventureos/internal/ratelimit"
)

// Config describes one provider client. Every provider client owns its own
// rate-limit window and cache handle so tests can instantiate isolated
// clients without cross-test leakage.
type Config struct {
	Name        string
	BaseURL     string
	APIKey      string
	Headers     map[string]string
	MaxRequests int
	Window      time.Duration
	Cache       cache.Store
	CachePrefix string
	MaxRetries  int
	BaseDelay   time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client wraps an HTTP transport with caching, rate limiting, circuit
// breaking and exponential-backoff retry. Provider adapters embed one and
// never handle auth or resilience themselves.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	headers    map[string]string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	cache      cache.Store
	prefix     string
	maxRetries int
	baseDelay  time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

func New(cfg Config) *Client {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 50
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoOp()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = cfg.Name
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: cfg.Name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		name:       cfg.Name,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		headers:    cfg.Headers,
		httpClient: cfg.HTTPClient,
		limiter:    ratelimit.New(cfg.MaxRequests, cfg.Window),
		cache:      cfg.Cache,
		prefix:     cfg.CachePrefix,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		breaker:    breaker,
		logger:     cfg.Logger,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Remaining returns how many requests are left in the current window.
func (c *Client) Remaining() int {
	return c.limiter.Remaining(c.name)
}

// Cache exposes the client's cache handle for administration surfaces.
func (c *Client) Cache() cache.Store {
	return c.cache
}

// Close releases the limiter's background resources.
func (c *Client) Close() {
	c.limiter.Close()
}

// Get performs a read-shaped call: cache first, then the rate-limit gate,
// then the retried network call, caching the raw body on success. The
// returned bool reports whether the response came from cache.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	key := cache.Key(c.prefix, struct {
		Path  string `json:"path"`
		Query string `json:"query"`
	}{Path: path, Query: query.Encode()})

	if body, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(body, out); err == nil {
			return true, nil
		}
		// Corrupt entry; fall through to the network.
	}

	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, &APIError{Provider: c.name, Message: "malformed response body: " + err.Error(), Code: CodeBadResponse}
	}

	if cacheErr := c.cache.Set(ctx, key, body); cacheErr != nil {
		c.logger.Warn("cache write failed", "provider", c.name, "error", cacheErr)
	}
	return false, nil
}

// GetUncached performs a read-shaped call that must always hit the
// network, e.g. polling a search session whose state changes between
// calls. Rate limiting and retry still apply.
func (c *Client) GetUncached(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Provider: c.name, Message: "malformed response body: " + err.Error(), Code: CodeBadResponse}
	}
	return nil
}

// Post performs a mutating call. It bypasses the cache entirely but is
// still rate limited and retried.
func (c *Client) Post(ctx context.Context, path string, payload any, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return &APIError{Provider: c.name, Message: "encode request: " + err.Error(), Code: CodeBadResponse}
		}
	}

	respBody, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{Provider: c.name, Message: "malformed response body: " + err.Error(), Code: CodeBadResponse}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if !c.limiter.Allow(c.name) {
		return nil, &APIError{
			Provider: c.name,
			Message:  "rate limit exceeded",
			Code:     CodeRateLimited,
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request",
				"provider", c.name, "path", path, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		respBody, err := c.once(ctx, method, path, query, body)
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &APIError{Provider: c.name, Message: "circuit breaker open", Code: CodeUpstream}
		}
	}

	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &APIError{Provider: c.name, Message: err.Error(), Code: CodeBadResponse}
	}

	// Uniform authentication: every outbound call carries the bearer
	// credential, subclasses never touch auth.
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, &APIError{Provider: c.name, Message: execErr.Error(), Code: CodeUpstream}
		}
		defer resp.Body.Close()

		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &APIError{Provider: c.name, Message: readErr.Error(), Code: CodeUpstream}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{
				Provider:   c.name,
				Message:    fmt.Sprintf("unexpected status: %s", http.StatusText(resp.StatusCode)),
				StatusCode: resp.StatusCode,
				Code:       CodeUpstream,
			}
		}
		return respBody, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
