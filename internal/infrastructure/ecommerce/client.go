// Package ecommerce contains marketplace API adapters implementing the
// domain Provider port.
package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// APIConfig holds transport settings for one marketplace API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second against the marketplace API
	RateLimit float64
	Burst     int
}

// applyDefaults fills zero values with safe defaults
func (c *APIConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 5
	}
	if c.Burst == 0 {
		c.Burst = 10
	}
}

// apiClient is the shared HTTP plumbing of the marketplace adapters:
// client-side rate limiting, JSON round trips and uniform error
// mapping. Auth headers come from the per-call credentials, never from
// client state, so one client serves every tenant.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newAPIClient(cfg APIConfig) *apiClient {
	cfg.applyDefaults()
	return &apiClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}
}

// doJSON performs one JSON request. headers carry the per-marketplace
// auth scheme. A nil body sends an empty request.
func (c *apiClient) doJSON(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", marketplace.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return marketplace.ErrTokenRequired
	case resp.StatusCode == http.StatusTooManyRequests:
		return marketplace.ErrRateLimited
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: HTTP %d: %s", marketplace.ErrRequestFailed, resp.StatusCode, truncate(respBody, 200))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: %v", marketplace.ErrInvalidResponse, err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
