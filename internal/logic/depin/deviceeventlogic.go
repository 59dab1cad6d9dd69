package depin

import (
	"context"
	"errors"
	"time"

	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/logic/calculator"
	"tempo/internal/metrics"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

// maxKwhPerEvent caps one metric report.
const maxKwhPerEvent = 10000

var errBadDeviceCredentials = errorx.Unauthorized("invalid device credentials")

type DeviceEventLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewDeviceEventLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeviceEventLogic {
	return &DeviceEventLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Report applies a device's heartbeat, metric or offline event. Metric events
// accumulate energy and earn a reward for the device owner.
func (l *DeviceEventLogic) Report(req *types.DeviceEventReq) (*types.DeviceEventResp, error) {
	status, err := eventStatus(req)
	if err != nil {
		return nil, err
	}

	device, err := l.svcCtx.DeviceRegistryDao.FindOneByDeviceId(l.ctx, req.DeviceId)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errBadDeviceCredentials
		}
		l.Errorf("load device %s: %v", req.DeviceId, err)
		return nil, err
	}
	if !VerifyDeviceKey(req.DeviceKey, device.DeviceKeyHash) {
		l.Infof("rejected %s event for %s: bad device key", req.EventType, req.DeviceId)
		return nil, errBadDeviceCredentials
	}

	now := time.Now().UTC()
	event := model.DeviceEvent{
		Status:    status,
		SeenAt:    now,
		UptimePct: req.UptimePct,
	}
	if req.EventType == constant.DeviceEventMetric {
		event.AddKwh = req.Kwh
	}
	resp := &types.DeviceEventResp{
		DeviceId: device.DeviceId,
		Status:   status,
		TotalKwh: device.TotalKwh + event.AddKwh,
	}
	if req.EventType != constant.DeviceEventMetric {
		if err := l.svcCtx.DeviceRegistryDao.ApplyEvent(l.ctx, device.Id, event); err != nil {
			l.Errorf("apply event to %s: %v", req.DeviceId, err)
			return nil, err
		}
		metrics.DeviceEvents.WithLabelValues(req.EventType).Inc()
		return resp, nil
	}

	uptime := device.UptimePct
	if req.UptimePct != nil {
		uptime = *req.UptimePct
	}
	row := l.newReward(device, req.Kwh, uptime, now)
	if err := l.svcCtx.DeviceRegistryDao.RecordMetric(l.ctx, device.Id, event, row); err != nil {
		l.Errorf("record metric for %s: %v", req.DeviceId, err)
		return nil, err
	}
	metrics.DeviceEvents.WithLabelValues(req.EventType).Inc()
	metrics.RewardsIssued.Add(row.Amount)

	reward := toReward(row)
	reward.DeviceId = device.DeviceId
	resp.Reward = &reward
	return resp, nil
}

func (l *DeviceEventLogic) newReward(device *model.DeviceRegistry, kwh, uptime float64, now time.Time) *model.DepinRewards {
	multiplier, ok := constant.DeviceMultiplier(device.DeviceType)
	if !ok {
		multiplier = 1
	}
	rate := l.svcCtx.Config.Depin.RatePerKwh
	bonus := calculator.UptimeBonus(uptime)

	return &model.DepinRewards{
		Id:          uuid.NewString(),
		DeviceId:    device.Id,
		OwnerId:     device.OwnerId,
		Kwh:         kwh,
		Rate:        rate,
		Multiplier:  multiplier,
		UptimeBonus: bonus,
		Amount:      calculator.Reward(kwh, rate, multiplier, bonus),
		CreatedAt:   now,
	}
}

func eventStatus(req *types.DeviceEventReq) (string, error) {
	if req.DeviceId == "" {
		return "", errorx.BadRequest("device_id is required")
	}
	if req.UptimePct != nil && (*req.UptimePct < 0 || *req.UptimePct > 100) {
		return "", errorx.BadRequest("uptime_pct must be between 0 and 100")
	}

	switch req.EventType {
	case constant.DeviceEventHeartbeat:
		return constant.DeviceStatusOnline, nil
	case constant.DeviceEventMetric:
		if req.Kwh <= 0 || req.Kwh > maxKwhPerEvent {
			return "", errorx.BadRequest("metric events need kwh between 0 and 10000")
		}
		return constant.DeviceStatusOnline, nil
	case constant.DeviceEventOffline:
		return constant.DeviceStatusOffline, nil
	default:
		return "", errorx.BadRequest("unsupported event type: " + req.EventType)
	}
}
