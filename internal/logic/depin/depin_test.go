package depin

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/testutil"
	"tempo/internal/types"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerDevice(t *testing.T, svcCtx *svc.ServiceContext, owner, deviceId, deviceType string) string {
	t.Helper()
	resp, err := NewDevicesLogic(testutil.WithUser(context.Background(), owner), svcCtx).Register(&types.RegisterDeviceReq{
		DeviceId:   deviceId,
		Name:       "Roof array",
		DeviceType: deviceType,
		CapacityKw: 6.5,
	})
	require.NoError(t, err)
	return resp.DeviceKey
}

func ptr(f float64) *float64 { return &f }

func TestDeviceKey(t *testing.T) {
	key, hash := NewDeviceKey()
	assert.Regexp(t, `^dk_[0-9a-f]{32}$`, key)
	assert.True(t, VerifyDeviceKey(key, hash))
	assert.False(t, VerifyDeviceKey(key+"x", hash))
	assert.False(t, VerifyDeviceKey("", hash))

	other, _ := NewDeviceKey()
	assert.NotEqual(t, key, other)
}

func TestRegisterDevice(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	ctx := testutil.WithUser(context.Background(), "owner-1")
	l := NewDevicesLogic(ctx, svcCtx)

	resp, err := l.Register(&types.RegisterDeviceReq{DeviceId: "solar-001", DeviceType: "solar", Name: " Roof "})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.DeviceKey)
	assert.Equal(t, constant.DeviceStatusRegistered, resp.Device.Status)
	assert.Equal(t, "Roof", resp.Device.Name)

	stored := mocks.Devices.Get("solar-001")
	require.NotNil(t, stored)
	assert.NotEqual(t, resp.DeviceKey, stored.DeviceKeyHash)
	assert.True(t, VerifyDeviceKey(resp.DeviceKey, stored.DeviceKeyHash))

	var ce *errorx.CodeError
	_, err = l.Register(&types.RegisterDeviceReq{DeviceId: "solar-001", DeviceType: "solar"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusConflict, ce.Code)

	_, err = l.Register(&types.RegisterDeviceReq{DeviceId: "wind-1", DeviceType: "wind"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "unsupported device type: wind", ce.Msg)

	_, err = l.Register(&types.RegisterDeviceReq{DeviceId: "a b", DeviceType: "solar"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadRequest, ce.Code)

	list, err := l.List()
	require.NoError(t, err)
	assert.Len(t, list.Devices, 1)

	_, err = NewDevicesLogic(context.Background(), svcCtx).List()
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusUnauthorized, ce.Code)
}

func TestReportMetricIssuesReward(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	key := registerDevice(t, svcCtx, "owner-1", "ev-7", "ev_charger")
	l := NewDeviceEventLogic(context.Background(), svcCtx)

	resp, err := l.Report(&types.DeviceEventReq{
		DeviceId:  "ev-7",
		EventType: constant.DeviceEventMetric,
		Kwh:       40,
		UptimePct: ptr(99.5),
		DeviceKey: key,
	})
	require.NoError(t, err)
	assert.Equal(t, constant.DeviceStatusOnline, resp.Status)
	assert.Equal(t, 40.0, resp.TotalKwh)
	require.NotNil(t, resp.Reward)
	// 40 kWh × 0.12 × 1.5 × 1.2
	assert.InDelta(t, 8.64, resp.Reward.Amount, 1e-9)
	assert.Equal(t, "ev-7", resp.Reward.DeviceId)

	device := mocks.Devices.Get("ev-7")
	assert.Equal(t, 40.0, device.TotalKwh)
	assert.Equal(t, 99.5, device.UptimePct)
	assert.NotNil(t, device.LastSeenAt)

	// stored uptime is used when the report has none
	resp, err = l.Report(&types.DeviceEventReq{DeviceId: "ev-7", EventType: constant.DeviceEventMetric, Kwh: 10, DeviceKey: key})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.TotalKwh)
	assert.InDelta(t, 10*0.12*1.5*1.2, resp.Reward.Amount, 1e-9)

	require.Len(t, mocks.Rewards.Rows, 2)
	assert.Equal(t, "owner-1", mocks.Rewards.Rows[0].OwnerId)
}

func TestReportMetricKeepsDeviceWhenRewardFails(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	key := registerDevice(t, svcCtx, "owner-1", "solar-3", "solar")
	l := NewDeviceEventLogic(context.Background(), svcCtx)

	_, err := l.Report(&types.DeviceEventReq{DeviceId: "solar-3", EventType: constant.DeviceEventMetric, Kwh: 12, DeviceKey: key})
	require.NoError(t, err)

	mocks.Rewards.Err = errors.New("rewards table locked")
	for i := 0; i < 2; i++ {
		_, err = l.Report(&types.DeviceEventReq{DeviceId: "solar-3", EventType: constant.DeviceEventMetric, Kwh: 30, DeviceKey: key})
		require.Error(t, err)
	}

	device := mocks.Devices.Get("solar-3")
	assert.Equal(t, 12.0, device.TotalKwh)
	assert.Len(t, mocks.Rewards.Rows, 1)
}

func TestReportHeartbeatAndOffline(t *testing.T) {
	svcCtx, mocks := testutil.NewServiceContext(testutil.Config(), nil)
	key := registerDevice(t, svcCtx, "owner-1", "sensor-1", "sensor")
	l := NewDeviceEventLogic(context.Background(), svcCtx)

	resp, err := l.Report(&types.DeviceEventReq{DeviceId: "sensor-1", EventType: constant.DeviceEventHeartbeat, Kwh: 99, DeviceKey: key})
	require.NoError(t, err)
	assert.Equal(t, constant.DeviceStatusOnline, resp.Status)
	assert.Nil(t, resp.Reward)
	assert.Zero(t, mocks.Devices.Get("sensor-1").TotalKwh)

	resp, err = l.Report(&types.DeviceEventReq{DeviceId: "sensor-1", EventType: constant.DeviceEventOffline, DeviceKey: key})
	require.NoError(t, err)
	assert.Equal(t, constant.DeviceStatusOffline, resp.Status)
	assert.Equal(t, constant.DeviceStatusOffline, mocks.Devices.Get("sensor-1").Status)
	assert.Empty(t, mocks.Rewards.Rows)
}

func TestReportRejects(t *testing.T) {
	svcCtx, _ := testutil.NewServiceContext(testutil.Config(), nil)
	key := registerDevice(t, svcCtx, "owner-1", "bat-1", "battery")
	l := NewDeviceEventLogic(context.Background(), svcCtx)

	tests := []struct {
		name     string
		req      types.DeviceEventReq
		wantCode int
	}{
		{"wrong key", types.DeviceEventReq{DeviceId: "bat-1", EventType: "heartbeat", DeviceKey: "dk_nope"}, http.StatusUnauthorized},
		{"missing key", types.DeviceEventReq{DeviceId: "bat-1", EventType: "heartbeat"}, http.StatusUnauthorized},
		{"unknown device", types.DeviceEventReq{DeviceId: "bat-2", EventType: "heartbeat", DeviceKey: key}, http.StatusUnauthorized},
		{"bad event", types.DeviceEventReq{DeviceId: "bat-1", EventType: "reboot", DeviceKey: key}, http.StatusBadRequest},
		{"metric without kwh", types.DeviceEventReq{DeviceId: "bat-1", EventType: "metric", DeviceKey: key}, http.StatusBadRequest},
		{"uptime out of range", types.DeviceEventReq{DeviceId: "bat-1", EventType: "heartbeat", UptimePct: ptr(120), DeviceKey: key}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Report(&tt.req)
			var ce *errorx.CodeError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantCode, ce.Code)
		})
	}
}

func TestRewardsSummary(t *testing.T) {
	svcCtx, _ := testutil.NewServiceContext(testutil.Config(), nil)
	key := registerDevice(t, svcCtx, "owner-1", "solar-9", "solar")
	events := NewDeviceEventLogic(context.Background(), svcCtx)
	for _, kwh := range []float64{10, 20} {
		_, err := events.Report(&types.DeviceEventReq{DeviceId: "solar-9", EventType: "metric", Kwh: kwh, UptimePct: ptr(92), DeviceKey: key})
		require.NoError(t, err)
	}

	resp, err := NewRewardsLogic(testutil.WithUser(context.Background(), "owner-1"), svcCtx).Summary(&types.RewardsReq{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.RewardCount)
	assert.InDelta(t, 30*0.12, resp.TotalRewards, 1e-9)
	require.Len(t, resp.Recent, 1)
	assert.Equal(t, "solar-9", resp.Recent[0].DeviceId)

	resp, err = NewRewardsLogic(testutil.WithUser(context.Background(), "owner-2"), svcCtx).Summary(&types.RewardsReq{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, resp.RewardCount)
	assert.Empty(t, resp.Recent)
}

func TestJanitorSweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-25 * time.Hour)
	fresh := now.Add(-time.Hour)
	dao := testutil.NewMockDeviceRegistryDao(
		&model.DeviceRegistry{Id: "1", DeviceId: "stale", Status: constant.DeviceStatusOnline, LastSeenAt: &stale},
		&model.DeviceRegistry{Id: "2", DeviceId: "fresh", Status: constant.DeviceStatusOnline, LastSeenAt: &fresh},
		&model.DeviceRegistry{Id: "3", DeviceId: "new", Status: constant.DeviceStatusRegistered},
	)

	j, err := NewJanitorWithClock(dao, "@every 1h", 24*time.Hour, clockwork.NewFakeClockAt(now))
	require.NoError(t, err)

	n, err := j.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, constant.DeviceStatusOffline, dao.Get("stale").Status)
	assert.Equal(t, constant.DeviceStatusOnline, dao.Get("fresh").Status)
	assert.Equal(t, constant.DeviceStatusRegistered, dao.Get("new").Status)
}

func TestJanitorRejectsBadSchedule(t *testing.T) {
	_, err := NewJanitorWithClock(testutil.NewMockDeviceRegistryDao(), "every now and then", time.Hour, clockwork.NewFakeClock())
	assert.ErrorContains(t, err, "invalid janitor schedule")
}

func TestJanitorSweepError(t *testing.T) {
	dao := testutil.NewMockDeviceRegistryDao()
	dao.Err = errors.New("db down")
	j, err := NewJanitorWithClock(dao, "@hourly", time.Hour, clockwork.NewFakeClock())
	require.NoError(t, err)

	_, err = j.Sweep(context.Background())
	assert.Error(t, err)
}
