// Package upstream is the shared transport for third-party JSON APIs.
// Requests go through a go-zero httpc service, so each upstream host gets
// its own circuit breaker, and through an optional rate limiter.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"tempo/internal/metrics"

	"github.com/zeromicro/go-zero/rest/httpc"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Body)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

type Client struct {
	name    string
	service httpc.Service
	limiter *rate.Limiter
}

// NewClient builds a client. A zero limit disables rate limiting.
func NewClient(name string, timeout time.Duration, limit rate.Limit) *Client {
	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(limit, 1)
	}
	return &Client{
		name:    name,
		service: httpc.NewServiceWithClient(name, &http.Client{Timeout: timeout}),
		limiter: limiter,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Get issues a GET and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", c.name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.Do(req)
}

// Do sends req and returns the body of a 2xx response.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("%s rate limiter: %w", c.name, err)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Tempo/1.0")

	start := time.Now()
	resp, err := c.service.DoRequest(req)
	metrics.UpstreamDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("%s API call failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues(c.name, fmt.Sprintf("%dxx", resp.StatusCode/100)).Inc()
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Provider: c.name, StatusCode: resp.StatusCode, Body: snippet}
	}

	metrics.UpstreamRequests.WithLabelValues(c.name, "ok").Inc()
	return body, nil
}
