package yields

import (
	"context"
	"sort"
	"strings"

	"tempo/internal/errorx"
	"tempo/internal/svc"
	"tempo/internal/types"
	"tempo/internal/upstream/defillama"

	"github.com/zeromicro/go-zero/core/logx"
)

type PoolsLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewPoolsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PoolsLogic {
	return &PoolsLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Pools returns the highest-APY DeFi Llama pools matching the filters.
func (l *PoolsLogic) Pools(req *types.YieldPoolsReq) (*types.YieldPoolsResp, error) {
	pools, err := l.svcCtx.DefiLlama.Pools(l.ctx)
	if err != nil {
		l.Errorf("fetch defillama pools: %v", err)
		return nil, errorx.BadGateway("failed to fetch yield data")
	}

	matched := FilterPools(pools, req)
	total := len(matched)
	if len(matched) > req.Limit {
		matched = matched[:req.Limit]
	}

	resp := &types.YieldPoolsResp{
		Pools: make([]types.YieldPool, 0, len(matched)),
		Total: total,
	}
	for _, p := range matched {
		resp.Pools = append(resp.Pools, types.YieldPool{
			Pool:       p.Pool,
			Chain:      p.Chain,
			Project:    p.Project,
			Symbol:     p.Symbol,
			TvlUsd:     p.TvlUsd,
			Apy:        p.Apy,
			ApyBase:    p.ApyBase,
			ApyReward:  p.ApyReward,
			Stablecoin: p.Stablecoin,
			IlRisk:     p.IlRisk,
		})
	}
	return resp, nil
}

// FilterPools keeps pools matching chain, project, stablecoin and minimum
// TVL, sorted by APY descending. Chain and project match case-insensitively.
func FilterPools(pools []defillama.Pool, req *types.YieldPoolsReq) []defillama.Pool {
	out := make([]defillama.Pool, 0, len(pools))
	for _, p := range pools {
		if req.Chain != "" && !strings.EqualFold(p.Chain, req.Chain) {
			continue
		}
		if req.Project != "" && !strings.EqualFold(p.Project, req.Project) {
			continue
		}
		if req.Stablecoin && !p.Stablecoin {
			continue
		}
		if p.TvlUsd < req.MinTvl {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Apy > out[j].Apy })
	return out
}
