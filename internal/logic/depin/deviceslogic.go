package depin

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/middleware"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

var deviceIdPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{3,64}$`)

type DevicesLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewDevicesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DevicesLogic {
	return &DevicesLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Register adds a device for the caller and issues its device key.
func (l *DevicesLogic) Register(req *types.RegisterDeviceReq) (*types.RegisterDeviceResp, error) {
	ownerId := middleware.UserIdFrom(l.ctx)
	if ownerId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}
	if !deviceIdPattern.MatchString(req.DeviceId) {
		return nil, errorx.BadRequest("device_id must be 3-64 letters, digits or _.:-")
	}
	if !constant.IsDeviceTypeSupported(req.DeviceType) {
		return nil, errorx.BadRequest("unsupported device type: " + req.DeviceType)
	}
	if req.CapacityKw < 0 {
		return nil, errorx.BadRequest("capacity_kw must not be negative")
	}

	key, hash := NewDeviceKey()
	now := time.Now().UTC()
	row := &model.DeviceRegistry{
		Id:            uuid.NewString(),
		OwnerId:       ownerId,
		DeviceId:      req.DeviceId,
		Name:          strings.TrimSpace(req.Name),
		DeviceType:    req.DeviceType,
		DeviceKeyHash: hash,
		Status:        constant.DeviceStatusRegistered,
		Location:      strings.TrimSpace(req.Location),
		CapacityKw:    req.CapacityKw,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.svcCtx.DeviceRegistryDao.Insert(l.ctx, row); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, errorx.Conflict("device already registered")
		}
		l.Errorf("register device %s: %v", req.DeviceId, err)
		return nil, err
	}

	l.Infof("user %s registered %s device %s", ownerId, req.DeviceType, req.DeviceId)
	return &types.RegisterDeviceResp{
		Device:    toDevice(row),
		DeviceKey: key,
	}, nil
}

func (l *DevicesLogic) List() (*types.ListDevicesResp, error) {
	ownerId := middleware.UserIdFrom(l.ctx)
	if ownerId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	rows, err := l.svcCtx.DeviceRegistryDao.FindByOwner(l.ctx, ownerId)
	if err != nil {
		l.Errorf("list devices for %s: %v", ownerId, err)
		return nil, err
	}
	resp := &types.ListDevicesResp{Devices: make([]types.Device, 0, len(rows))}
	for _, row := range rows {
		resp.Devices = append(resp.Devices, toDevice(row))
	}
	return resp, nil
}

func toDevice(row *model.DeviceRegistry) types.Device {
	d := types.Device{
		Id:         row.Id,
		DeviceId:   row.DeviceId,
		Name:       row.Name,
		DeviceType: row.DeviceType,
		Status:     row.Status,
		Location:   row.Location,
		CapacityKw: row.CapacityKw,
		TotalKwh:   row.TotalKwh,
		UptimePct:  row.UptimePct,
		CreatedAt:  row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.LastSeenAt != nil {
		d.LastSeenAt = row.LastSeenAt.UTC().Format(time.RFC3339)
	}
	return d
}
