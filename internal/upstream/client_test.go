package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("test-ok", 5*time.Second, 0)
	body, err := c.Get(context.Background(), srv.URL, http.Header{"x-api-key": {"secret"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestClient_GetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	c := NewClient("test-429", 5*time.Second, 0)
	_, err := c.Get(context.Background(), srv.URL, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Body, "slow down")
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	c := NewClient("test-limited", time.Second, 0.001)
	// The first call consumes the single burst token.
	c.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "http://127.0.0.1:1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &StatusError{Provider: "x", StatusCode: 429})
	assert.Equal(t, 429, StatusCode(err))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
