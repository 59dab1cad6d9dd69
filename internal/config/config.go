package config

import (
	"time"

	"github.com/zeromicro/go-zero/rest"
)

type ChainConf struct {
	Name    string `json:"Name"`
	RpcUrl  string `json:"RpcUrl,optional"`
	ChainId int64  `json:"ChainId"`
	// WormholeChainId is the Wormhole-assigned chain id, not the EVM chain id.
	WormholeChainId int     `json:"WormholeChainId,optional"`
	NativeCoinId    string  `json:"NativeCoinId"`
	NativeSymbol    string  `json:"NativeSymbol,default=ETH"`
	FallbackGasGwei float64 `json:"FallbackGasGwei,default=20"`
	FinalityMinutes int     `json:"FinalityMinutes,default=15"`
	ExplorerUrl     string  `json:"ExplorerUrl,optional"`
	// Tokens maps a CoinGecko coin id to its ERC-20 contract on this chain.
	Tokens map[string]TokenConf `json:"Tokens,optional"`
}

type TokenConf struct {
	Address  string `json:"Address"`
	Symbol   string `json:"Symbol"`
	Decimals int    `json:"Decimals,default=18"`
}

type Config struct {
	rest.RestConf
	Postgres struct {
		DSN          string
		MaxIdleConns int `json:",default=10"`
		MaxOpenConns int `json:",default=100"`
	}
	Auth struct {
		JwtSecret string
		// DeviceKeyHeader carries the per-device key on device-event reports.
		DeviceKeyHeader string `json:",default=X-Device-Key"`
	}
	CoinGecko struct {
		ApiUrl          string `json:",default=https://api.coingecko.com/api/v3"`
		ApiKey          string `json:",optional"`
		ApiKeyHeader    string `json:",default=x-cg-demo-api-key"`
		RateLimitPerMin int    `json:",default=30"`
		CacheSeconds    int    `json:",default=60"`
	}
	Etherscan struct {
		ApiUrl          string `json:",default=https://api.etherscan.io/v2/api"`
		ApiKey          string `json:",optional"`
		RateLimitPerSec int    `json:",default=2"`
	}
	WormholeScan struct {
		ApiUrl string `json:",default=https://api.wormholescan.io"`
	}
	DefiLlama struct {
		ApiUrl       string `json:",default=https://yields.llama.fi"`
		CacheSeconds int    `json:",default=300"`
	}
	Llm struct {
		ApiUrl      string `json:",default=https://ai.gateway.lovable.dev/v1"`
		ApiKey      string `json:",optional"`
		Model       string `json:",default=google/gemini-2.5-flash"`
		MaxMessages int    `json:",default=20"`
		// RequestsPerMinute is the per-user budget on the assistant endpoint.
		RequestsPerMinute int `json:",default=10"`
	}
	Bridge struct {
		PollInterval     time.Duration `json:",default=30s"`
		PollBatch        int           `json:",default=50"`
		BridgeFeeBps     int64         `json:",default=10"`
		SwapFeeBps       int64         `json:",default=30"`
		TransferGasLimit uint64        `json:",default=250000"`
		RedeemGasLimit   uint64        `json:",default=300000"`
	}
	Depin struct {
		RatePerKwh   float64       `json:",default=0.12"`
		JanitorSpec  string        `json:",default=@every 1h"`
		OfflineAfter time.Duration `json:",default=24h"`
	}
	// Chains maps a chain key (e.g., "ethereum") to its configuration.
	Chains map[string]ChainConf
}

// Chain looks up a chain by key.
func (c Config) Chain(key string) (ChainConf, bool) {
	chain, ok := c.Chains[key]
	return chain, ok
}
