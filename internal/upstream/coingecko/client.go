// Package coingecko is the server-side CoinGecko client. Browser code calls
// the /api/prices endpoints instead of CoinGecko directly, so the API key
// stays on the server and responses are shared through one cache.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"tempo/internal/upstream"

	"github.com/zeromicro/go-zero/core/collection"
	"golang.org/x/time/rate"
)

type Config struct {
	// BaseURL defaults to the public API; a Pro key needs the pro-api host.
	BaseURL string
	APIKey  string
	// APIKeyHeader is x-cg-demo-api-key for demo keys, x-cg-pro-api-key for pro keys.
	APIKeyHeader    string
	RateLimitPerMin int
	CacheTTL        time.Duration
	Timeout         time.Duration
}

func ConfigDefaults() Config {
	return Config{
		BaseURL:         "https://api.coingecko.com/api/v3",
		APIKeyHeader:    "x-cg-demo-api-key",
		RateLimitPerMin: 30,
		CacheTTL:        time.Minute,
		Timeout:         15 * time.Second,
	}
}

type Client struct {
	config Config
	http   *upstream.Client
	cache  *collection.Cache
}

func NewClient(config Config) (*Client, error) {
	applyDefaults(&config, ConfigDefaults())

	cache, err := collection.NewCache(config.CacheTTL, collection.WithName("coingecko"), collection.WithLimit(1000))
	if err != nil {
		return nil, fmt.Errorf("create coingecko cache: %w", err)
	}

	return &Client{
		config: config,
		http:   upstream.NewClient("coingecko", config.Timeout, rate.Limit(float64(config.RateLimitPerMin)/60.0)),
		cache:  cache,
	}, nil
}

func applyDefaults(config *Config, defaults Config) {
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.APIKeyHeader == "" {
		config.APIKeyHeader = defaults.APIKeyHeader
	}
	if config.RateLimitPerMin <= 0 {
		config.RateLimitPerMin = defaults.RateLimitPerMin
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
}

// Get fetches path (e.g. "/simple/price") with query and returns the raw JSON.
// Identical requests within the cache TTL are served from memory.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.config.BaseURL + path
	if len(query) > 0 {
		// Encode sorts by key, so the cache key is stable.
		fullURL += "?" + query.Encode()
	}

	val, err := c.cache.Take(fullURL, func() (any, error) {
		var header http.Header
		if c.config.APIKey != "" {
			header = http.Header{c.config.APIKeyHeader: {c.config.APIKey}}
		}
		return c.http.Get(ctx, fullURL, header)
	})
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

// SimplePrices returns the USD price of each coin id. Unknown ids are absent from the map.
func (c *Client) SimplePrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for id := range unique {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	body, err := c.Get(ctx, "/simple/price", url.Values{
		"ids":           {strings.Join(sorted, ",")},
		"vs_currencies": {"usd"},
	})
	if err != nil {
		return nil, err
	}

	var resp simplePriceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse coingecko prices: %w", err)
	}

	prices := make(map[string]float64, len(resp))
	for id, data := range resp {
		prices[id] = data.USD
	}
	return prices, nil
}

// simplePriceResponse represents the response from /simple/price:
//
//	{"ethereum": {"usd": 3456.78}}
type simplePriceResponse map[string]struct {
	USD float64 `json:"usd"`
}
