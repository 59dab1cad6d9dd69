package bridge

import (
	"context"

	"tempo/internal/errorx"
	"tempo/internal/middleware"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListTxLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewListTxLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListTxLogic {
	return &ListTxLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *ListTxLogic) ListTx(req *types.ListTxReq) (*types.ListTxResp, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	rows, err := l.svcCtx.WormholeTransactionsDao.FindByUser(l.ctx, userId, req.Limit)
	if err != nil {
		l.Errorf("list transactions for %s: %v", userId, err)
		return nil, err
	}

	resp := &types.ListTxResp{Transactions: make([]types.BridgeTransaction, 0, len(rows))}
	for _, row := range rows {
		resp.Transactions = append(resp.Transactions, toBridgeTransaction(row, l.svcCtx.Config.Chains))
	}
	return resp, nil
}
