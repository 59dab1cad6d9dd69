package handler

import (
	"net/http"
	"time"

	"tempo/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

const (
	defaultTimeout   = 30 * time.Second
	assistantTimeout = 75 * time.Second
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/health",
				Handler: HealthHandler(serverCtx),
			},
			// --- Bridge Routes ---
			{
				Method:  http.MethodPost,
				Path:    "/bridge/estimate-fee",
				Handler: EstimateFeeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/bridge/status",
				Handler: TransferStatusHandler(serverCtx),
			},
			// --- Price Routes ---
			{
				Method:  http.MethodGet,
				Path:    "/prices/simple",
				Handler: SimplePriceHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/prices/markets",
				Handler: MarketsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/prices/chart",
				Handler: ChartHandler(serverCtx),
			},
			// --- Wallet Routes ---
			{
				Method:  http.MethodPost,
				Path:    "/wallet/balances",
				Handler: BalancesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/wallet/transactions",
				Handler: WalletTransactionsHandler(serverCtx),
			},
			// --- DePIN Routes ---
			{
				Method:  http.MethodPost,
				Path:    "/depin/device-event",
				Handler: DeviceEventHandler(serverCtx),
			},
			// --- Calculator Routes ---
			{
				Method:  http.MethodPost,
				Path:    "/calculator/earnings",
				Handler: EarningsHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/calculator/roi",
				Handler: RoiHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/calculator/yield",
				Handler: YieldHandler(serverCtx),
			},
			// --- Yield Routes ---
			{
				Method:  http.MethodGet,
				Path:    "/yields",
				Handler: YieldPoolsHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
		rest.WithTimeout(defaultTimeout),
	)

	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.Auth},
			[]rest.Route{
				{
					Method:  http.MethodPost,
					Path:    "/bridge/import",
					Handler: ImportTxHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/bridge/transactions",
					Handler: ListTxHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/wallet/connect",
					Handler: ConnectWalletHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/wallet/disconnect",
					Handler: DisconnectWalletHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/wallet/connections",
					Handler: ConnectionsHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/depin/devices",
					Handler: RegisterDeviceHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/depin/devices",
					Handler: ListDevicesHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/depin/rewards",
					Handler: RewardsHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/profile",
					Handler: GetProfileHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/profile",
					Handler: UpdateProfileHandler(serverCtx),
				},
			}...,
		),
		rest.WithPrefix("/api"),
		rest.WithTimeout(defaultTimeout),
	)

	// Auth runs first so the limiter keys on the user id.
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.Auth, serverCtx.AssistantRateLimit},
			rest.Route{
				Method:  http.MethodPost,
				Path:    "/assistant/chat",
				Handler: ChatHandler(serverCtx),
			},
		),
		rest.WithPrefix("/api"),
		rest.WithTimeout(assistantTimeout),
	)
}
