package depin

import (
	"context"
	"time"

	"tempo/internal/errorx"
	"tempo/internal/middleware"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

type RewardsLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewRewardsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RewardsLogic {
	return &RewardsLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Summary returns lifetime totals and the most recent rewards of the caller.
func (l *RewardsLogic) Summary(req *types.RewardsReq) (*types.RewardsResp, error) {
	ownerId := middleware.UserIdFrom(l.ctx)
	if ownerId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	var (
		totals  *model.RewardTotals
		recent  []*model.DepinRewards
		devices []*model.DeviceRegistry
	)
	err := mr.Finish(func() (err error) {
		totals, err = l.svcCtx.DepinRewardsDao.SumByOwner(l.ctx, ownerId)
		return err
	}, func() (err error) {
		recent, err = l.svcCtx.DepinRewardsDao.FindByOwner(l.ctx, ownerId, req.Limit)
		return err
	}, func() (err error) {
		devices, err = l.svcCtx.DeviceRegistryDao.FindByOwner(l.ctx, ownerId)
		return err
	})
	if err != nil {
		l.Errorf("load rewards for %s: %v", ownerId, err)
		return nil, err
	}

	// rewards reference the registry id; callers know devices by device_id
	names := make(map[string]string, len(devices))
	for _, d := range devices {
		names[d.Id] = d.DeviceId
	}

	resp := &types.RewardsResp{
		TotalRewards: totals.Total,
		RewardCount:  totals.Count,
		Recent:       make([]types.Reward, 0, len(recent)),
	}
	for _, row := range recent {
		r := toReward(row)
		if name, ok := names[row.DeviceId]; ok {
			r.DeviceId = name
		}
		resp.Recent = append(resp.Recent, r)
	}
	return resp, nil
}

func toReward(row *model.DepinRewards) types.Reward {
	return types.Reward{
		Id:          row.Id,
		DeviceId:    row.DeviceId,
		Kwh:         row.Kwh,
		Rate:        row.Rate,
		Multiplier:  row.Multiplier,
		UptimeBonus: row.UptimeBonus,
		Amount:      row.Amount,
		CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339),
	}
}
