package svc

import (
	"log"
	"time"

	"tempo/internal/chain"
	"tempo/internal/config"
	"tempo/internal/middleware"
	"tempo/internal/model"
	"tempo/internal/upstream/coingecko"
	"tempo/internal/upstream/defillama"
	"tempo/internal/upstream/etherscan"
	"tempo/internal/upstream/llm"
	"tempo/internal/upstream/wormholescan"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServiceContext struct {
	Config config.Config
	DB     *gorm.DB

	WormholeTransactionsDao model.WormholeTransactionsDao
	DeviceRegistryDao       model.DeviceRegistryDao
	DepinRewardsDao         model.DepinRewardsDao
	WalletConnectionsDao    model.WalletConnectionsDao
	ProfilesDao             model.ProfilesDao

	CoinGecko    *coingecko.Client
	Etherscan    *etherscan.Client
	WormholeScan *wormholescan.Client
	DefiLlama    *defillama.Client
	Llm          *llm.Client
	Chains       *chain.Registry

	Auth               rest.Middleware
	AssistantRateLimit rest.Middleware
}

func NewServiceContext(c config.Config) *ServiceContext {
	db, err := InitDB(c)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	gecko, err := coingecko.NewClient(coingecko.Config{
		BaseURL:         c.CoinGecko.ApiUrl,
		APIKey:          c.CoinGecko.ApiKey,
		APIKeyHeader:    c.CoinGecko.ApiKeyHeader,
		RateLimitPerMin: c.CoinGecko.RateLimitPerMin,
		CacheTTL:        time.Duration(c.CoinGecko.CacheSeconds) * time.Second,
	})
	logx.Must(err)

	llama, err := defillama.NewClient(c.DefiLlama.ApiUrl, time.Duration(c.DefiLlama.CacheSeconds)*time.Second)
	logx.Must(err)

	if c.Auth.JwtSecret == "" {
		logx.Alert("Auth.JwtSecret is empty, every authenticated route will reject requests")
	}

	return &ServiceContext{
		Config: c,
		DB:     db,

		WormholeTransactionsDao: model.NewWormholeTransactionsDao(db),
		DeviceRegistryDao:       model.NewDeviceRegistryDao(db),
		DepinRewardsDao:         model.NewDepinRewardsDao(db),
		WalletConnectionsDao:    model.NewWalletConnectionsDao(db),
		ProfilesDao:             model.NewProfilesDao(db),

		CoinGecko: gecko,
		Etherscan: etherscan.NewClient(etherscan.Config{
			APIKey:          c.Etherscan.ApiKey,
			BaseURL:         c.Etherscan.ApiUrl,
			RateLimitPerSec: c.Etherscan.RateLimitPerSec,
		}),
		WormholeScan: wormholescan.NewClient(c.WormholeScan.ApiUrl),
		DefiLlama:    llama,
		Llm:          llm.NewClient(c.Llm.ApiUrl, c.Llm.ApiKey),
		Chains:       chain.NewRegistry(c.Chains),

		Auth: middleware.NewAuthMiddleware(c.Auth.JwtSecret).Handle,
		AssistantRateLimit: middleware.NewRateLimitMiddleware(
			rate.Limit(float64(c.Llm.RequestsPerMinute)/60.0), c.Llm.RequestsPerMinute).Handle,
	}
}

// InitDB opens the Postgres pool. Duplicate-key errors are translated to
// gorm.ErrDuplicatedKey.
func InitDB(c config.Config) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(c.Postgres.DSN), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(c.Postgres.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.Postgres.MaxOpenConns)

	return db, nil
}

// Close releases RPC connections and the database pool.
func (s *ServiceContext) Close() {
	s.Chains.Close()
	if s.DB == nil {
		return
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
