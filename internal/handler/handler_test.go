package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tempo/internal/errorx"
	"tempo/internal/logic/depin"
	"tempo/internal/testutil"
	"tempo/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func init() {
	httpx.SetErrorHandlerCtx(errorx.Handler)
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorx.ErrorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestEarningsHandler(t *testing.T) {
	svcCtx, _ := testutil.NewServiceContext(testutil.Config(), nil)

	rec := doJSON(t, EarningsHandler(svcCtx), http.MethodPost, "/api/calculator/earnings",
		map[string]any{"devices": 10, "kwh_per_device": 5}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.EarningsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 7.2, resp.Daily, 1e-9)
	assert.InDelta(t, 216, resp.Monthly, 1e-9)
	assert.Equal(t, 1.2, resp.UptimeBonus)
}

func TestCalculatorOutOfRange(t *testing.T) {
	svcCtx, _ := testutil.NewServiceContext(testutil.Config(), nil)

	rec := doJSON(t, YieldHandler(svcCtx), http.MethodPost, "/api/calculator/yield",
		map[string]any{"principal": 1000, "apy": 5000, "days": 36500}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "result out of range", decodeError(t, rec))

	rec = doJSON(t, EarningsHandler(svcCtx), http.MethodPost, "/api/calculator/earnings",
		map[string]any{"devices": 1, "kwh_per_device": 1e308}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "kwh_per_device must be between 0 and 1000000", decodeError(t, rec))
}

func TestBadRequestBody(t *testing.T) {
	svcCtx, _ := testutil.NewServiceContext(testutil.Config(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/calculator/roi", bytes.NewBufferString(`{"investment_usd":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	RoiHandler(svcCtx)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec))
}

func TestAuthenticatedRoutes(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	list := svcCtx.Auth(ConnectionsHandler(svcCtx))

	rec := doJSON(t, list, http.MethodGet, "/api/wallet/connections", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := http.Header{"Authorization": {"Bearer " + testutil.Token(t, "user-1")}}
	connect := svcCtx.Auth(ConnectWalletHandler(svcCtx))
	rec = doJSON(t, connect, http.MethodPost, "/api/wallet/connect", map[string]any{
		"address": "0x52908400098527886E0F7030069857D2E4169EE7",
		"chain":   "base",
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, list, http.MethodGet, "/api/wallet/connections", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.ConnectionsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Connections, 1)
	assert.Equal(t, "metamask", resp.Connections[0].WalletType)

	rows, err := mocks.WalletConnections.FindActiveByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDatabaseErrorIsNotExposed(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	mocks.WalletConnections.Err = errors.New(`pq: relation "wallet_connections" does not exist`)

	auth := http.Header{"Authorization": {"Bearer " + testutil.Token(t, "user-1")}}
	rec := doJSON(t, svcCtx.Auth(ConnectionsHandler(svcCtx)), http.MethodGet, "/api/wallet/connections", nil, auth)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errorx.InternalErrorMsg, decodeError(t, rec))
	assert.NotContains(t, rec.Body.String(), "wallet_connections")
}

func TestDeviceEventKeyHeader(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	reg, err := depin.NewDevicesLogic(testutil.WithUser(context.Background(), "owner-1"), svcCtx).Register(&types.RegisterDeviceReq{
		DeviceId:   "solar-001",
		DeviceType: "solar",
	})
	require.NoError(t, err)

	event := map[string]any{"device_id": "solar-001", "event_type": "metric", "kwh": 10, "uptime_pct": 99.5}

	rec := doJSON(t, DeviceEventHandler(svcCtx), http.MethodPost, "/api/depin/device-event", event,
		http.Header{"X-Device-Key": {"dk_wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid device credentials", decodeError(t, rec))

	rec = doJSON(t, DeviceEventHandler(svcCtx), http.MethodPost, "/api/depin/device-event", event,
		http.Header{"X-Device-Key": {reg.DeviceKey}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.DeviceEventResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Reward)
	assert.InDelta(t, 10*0.12*1.0*1.2, resp.Reward.Amount, 1e-9)
	assert.Len(t, mocks.Rewards.Rows, 1)
}

func TestHealthHandlerWithoutDatabase(t *testing.T) {
	svcCtx, _ := testutil.NewServiceContext(testutil.Config(), nil)

	rec := doJSON(t, HealthHandler(svcCtx), http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp types.HealthResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}
