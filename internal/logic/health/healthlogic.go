package health

import (
	"context"
	"time"

	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	StatusOk       = "ok"
	StatusDegraded = "degraded"

	pingTimeout = 2 * time.Second
)

type HealthLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Health pings the database. The service is degraded when the ping fails.
func (l *HealthLogic) Health() *types.HealthResp {
	resp := &types.HealthResp{
		Status:   StatusOk,
		Database: l.pingDatabase(),
		Time:     time.Now().UTC().Format(time.RFC3339),
	}
	if resp.Database != "up" {
		resp.Status = StatusDegraded
	}
	return resp
}

func (l *HealthLogic) pingDatabase() string {
	if l.svcCtx.DB == nil {
		return "unconfigured"
	}
	sqlDB, err := l.svcCtx.DB.DB()
	if err != nil {
		l.Errorf("get sql db: %v", err)
		return "down"
	}

	ctx, cancel := context.WithTimeout(l.ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		l.Errorf("ping database: %v", err)
		return "down"
	}
	return "up"
}
