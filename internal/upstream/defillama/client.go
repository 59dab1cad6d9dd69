// Package defillama reads yield pools from the DeFi Llama yields API.
package defillama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tempo/internal/upstream"

	"github.com/tidwall/gjson"
	"github.com/zeromicro/go-zero/core/collection"
)

type Pool struct {
	Pool       string  `json:"pool"`
	Chain      string  `json:"chain"`
	Project    string  `json:"project"`
	Symbol     string  `json:"symbol"`
	TvlUsd     float64 `json:"tvl_usd"`
	Apy        float64 `json:"apy"`
	ApyBase    float64 `json:"apy_base"`
	ApyReward  float64 `json:"apy_reward"`
	Stablecoin bool    `json:"stablecoin"`
	IlRisk     string  `json:"il_risk"`
	Exposure   string  `json:"exposure"`
	PoolMeta   string  `json:"pool_meta,omitempty"`
	Prediction string  `json:"prediction,omitempty"`
}

const poolsCacheKey = "pools"

type Client struct {
	baseURL string
	http    *upstream.Client
	cache   *collection.Cache
}

func NewClient(baseURL string, cacheTTL time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = "https://yields.llama.fi"
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	cache, err := collection.NewCache(cacheTTL, collection.WithName("defillama"))
	if err != nil {
		return nil, fmt.Errorf("create defillama cache: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    upstream.NewClient("defillama", 30*time.Second, 0),
		cache:   cache,
	}, nil
}

// Pools returns every pool DeFi Llama tracks. The list is several
// megabytes, so it is cached for the configured TTL.
func (c *Client) Pools(ctx context.Context) ([]Pool, error) {
	val, err := c.cache.Take(poolsCacheKey, func() (any, error) {
		body, err := c.http.Get(ctx, c.baseURL+"/pools", nil)
		if err != nil {
			return nil, err
		}
		return parsePools(body)
	})
	if err != nil {
		return nil, err
	}
	return val.([]Pool), nil
}

// parsePools reads the "data" array. apyBase/apyReward are frequently null,
// which gjson reads as zero.
func parsePools(body []byte) ([]Pool, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("defillama returned invalid JSON")
	}
	if status := gjson.GetBytes(body, "status").String(); status != "" && status != "success" {
		return nil, fmt.Errorf("defillama status: %s", status)
	}

	data := gjson.GetBytes(body, "data")
	pools := make([]Pool, 0, int(data.Get("#").Int()))
	data.ForEach(func(_, p gjson.Result) bool {
		pools = append(pools, Pool{
			Pool:       p.Get("pool").String(),
			Chain:      p.Get("chain").String(),
			Project:    p.Get("project").String(),
			Symbol:     p.Get("symbol").String(),
			TvlUsd:     p.Get("tvlUsd").Float(),
			Apy:        p.Get("apy").Float(),
			ApyBase:    p.Get("apyBase").Float(),
			ApyReward:  p.Get("apyReward").Float(),
			Stablecoin: p.Get("stablecoin").Bool(),
			IlRisk:     p.Get("ilRisk").String(),
			Exposure:   p.Get("exposure").String(),
			PoolMeta:   p.Get("poolMeta").String(),
			Prediction: p.Get("predictions.predictedClass").String(),
		})
		return true
	})
	return pools, nil
}
