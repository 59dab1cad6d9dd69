package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"tempo/internal/chain"
	"tempo/internal/config"
	"tempo/internal/middleware"
	"tempo/internal/svc"
	"tempo/internal/upstream/coingecko"
	"tempo/internal/upstream/defillama"
	"tempo/internal/upstream/etherscan"
	"tempo/internal/upstream/llm"
	"tempo/internal/upstream/wormholescan"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const (
	JwtSecret    = "test-jwt-secret-test-jwt-secret-0123456789"
	rpcURLPrefix = "mock://"
)

// Config returns a config with two chains, ethereum and base, whose RPC URLs
// resolve to the readers handed to NewServiceContext.
func Config() config.Config {
	var c config.Config
	c.Auth.JwtSecret = JwtSecret
	c.Auth.DeviceKeyHeader = "X-Device-Key"
	c.CoinGecko.ApiKeyHeader = "x-cg-demo-api-key"
	c.CoinGecko.RateLimitPerMin = 6000
	c.CoinGecko.CacheSeconds = 60
	c.Etherscan.RateLimitPerSec = 100
	c.DefiLlama.CacheSeconds = 60
	c.Llm.Model = "test-model"
	c.Llm.MaxMessages = 20
	c.Llm.RequestsPerMinute = 10
	c.Bridge.PollInterval = 30 * time.Second
	c.Bridge.PollBatch = 50
	c.Bridge.BridgeFeeBps = 10
	c.Bridge.SwapFeeBps = 30
	c.Bridge.TransferGasLimit = 250000
	c.Bridge.RedeemGasLimit = 300000
	c.Depin.RatePerKwh = 0.12
	c.Depin.JanitorSpec = "@every 1h"
	c.Depin.OfflineAfter = 24 * time.Hour
	c.Chains = map[string]config.ChainConf{
		"ethereum": {
			Name:            "Ethereum",
			RpcUrl:          rpcURLPrefix + "ethereum",
			ChainId:         1,
			WormholeChainId: 2,
			NativeCoinId:    "ethereum",
			NativeSymbol:    "ETH",
			FallbackGasGwei: 20,
			FinalityMinutes: 15,
			ExplorerUrl:     "https://etherscan.io",
			Tokens: map[string]config.TokenConf{
				"usd-coin": {Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Decimals: 6},
			},
		},
		"base": {
			Name:            "Base",
			RpcUrl:          rpcURLPrefix + "base",
			ChainId:         8453,
			WormholeChainId: 30,
			NativeCoinId:    "ethereum",
			NativeSymbol:    "ETH",
			FallbackGasGwei: 0.05,
			FinalityMinutes: 20,
			ExplorerUrl:     "https://basescan.org",
		},
	}
	return c
}

// Mocks are the DAO fakes wired into a test ServiceContext.
type Mocks struct {
	WormholeTransactions *MockWormholeTransactionsDao
	Devices              *MockDeviceRegistryDao
	Rewards              *MockDepinRewardsDao
	WalletConnections    *MockWalletConnectionsDao
	Profiles             *MockProfilesDao
}

// NewServiceContext builds a ServiceContext on in-memory DAOs. Upstream base
// URLs come from c; readers maps chain keys to RPC fakes, and a chain
// without a reader fails to dial.
func NewServiceContext(c config.Config, readers map[string]chain.Reader) (*svc.ServiceContext, *Mocks) {
	mocks := &Mocks{
		WormholeTransactions: NewMockWormholeTransactionsDao(),
		Devices:              NewMockDeviceRegistryDao(),
		Rewards:              NewMockDepinRewardsDao(),
		WalletConnections:    NewMockWalletConnectionsDao(),
		Profiles:             NewMockProfilesDao(),
	}
	mocks.Devices.Rewards = mocks.Rewards

	gecko, err := coingecko.NewClient(coingecko.Config{
		BaseURL:         c.CoinGecko.ApiUrl,
		APIKey:          c.CoinGecko.ApiKey,
		APIKeyHeader:    c.CoinGecko.ApiKeyHeader,
		RateLimitPerMin: c.CoinGecko.RateLimitPerMin,
		CacheTTL:        time.Duration(c.CoinGecko.CacheSeconds) * time.Second,
	})
	if err != nil {
		panic(err)
	}
	llama, err := defillama.NewClient(c.DefiLlama.ApiUrl, time.Duration(c.DefiLlama.CacheSeconds)*time.Second)
	if err != nil {
		panic(err)
	}

	dial := func(_ context.Context, rpcUrl string) (chain.Reader, error) {
		if r, ok := readers[strings.TrimPrefix(rpcUrl, rpcURLPrefix)]; ok {
			return r, nil
		}
		return nil, fmt.Errorf("dial %s: connection refused", rpcUrl)
	}

	return &svc.ServiceContext{
		Config: c,

		WormholeTransactionsDao: mocks.WormholeTransactions,
		DeviceRegistryDao:       mocks.Devices,
		DepinRewardsDao:         mocks.Rewards,
		WalletConnectionsDao:    mocks.WalletConnections,
		ProfilesDao:             mocks.Profiles,

		CoinGecko: gecko,
		Etherscan: etherscan.NewClient(etherscan.Config{
			APIKey:          c.Etherscan.ApiKey,
			BaseURL:         c.Etherscan.ApiUrl,
			RateLimitPerSec: c.Etherscan.RateLimitPerSec,
		}),
		WormholeScan: wormholescan.NewClient(c.WormholeScan.ApiUrl),
		DefiLlama:    llama,
		Llm:          llm.NewClient(c.Llm.ApiUrl, c.Llm.ApiKey),
		Chains:       chain.NewRegistryWithDialer(c.Chains, dial),

		Auth: middleware.NewAuthMiddleware(c.Auth.JwtSecret).Handle,
		AssistantRateLimit: middleware.NewRateLimitMiddleware(
			rate.Limit(float64(c.Llm.RequestsPerMinute)/60.0), c.Llm.RequestsPerMinute).Handle,
	}, mocks
}

// WithUser returns a context authenticated as userId.
func WithUser(ctx context.Context, userId string) context.Context {
	return middleware.WithUser(ctx, &middleware.AuthUser{Id: userId, Role: "authenticated"})
}

// Token signs a one-hour access token for userId with JwtSecret.
func Token(t *testing.T, userId string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userId,
		"role": "authenticated",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(JwtSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
