package bridge

import (
	"context"
	"errors"
	"strings"
	"time"

	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/jonboulle/clockwork"
	"github.com/zeromicro/go-zero/core/logx"
)

type TransferStatusLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewTransferStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TransferStatusLogic {
	return &TransferStatusLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// CheckStatus asks WormholeScan for the transfer and updates the tracked row, if any.
func (l *TransferStatusLogic) CheckStatus(req *types.TransferStatusReq) (*types.TransferStatusResp, error) {
	txHash := strings.ToLower(strings.TrimSpace(req.TxHash))
	if !constant.IsValidTxHash(txHash) {
		return nil, errorx.BadRequest("invalid transaction hash format")
	}

	checker := NewStatusChecker(l.svcCtx.WormholeScan, l.svcCtx.WormholeTransactionsDao, clockwork.NewRealClock())
	op, status, err := checker.Resolve(l.ctx, txHash)
	if err != nil {
		l.Errorf("wormholescan lookup failed for %s: %v", txHash, err)
		return nil, errorx.BadGateway("failed to check transfer status")
	}

	resp := &types.TransferStatusResp{
		TxHash:    txHash,
		Status:    status,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if op != nil {
		resp.OperationId = op.Id
		resp.HasVaa = op.Vaa != ""
		resp.TargetTxHash = op.TargetTxHash
		resp.SourceChainId = op.SourceChainId
		resp.TargetChainId = op.TargetChainId
	}

	row, err := l.svcCtx.WormholeTransactionsDao.FindOneByTxHash(l.ctx, txHash)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return resp, nil
	case err != nil:
		l.Errorf("load tracked transaction %s: %v", txHash, err)
		return resp, nil
	}

	resp.Tracked = true
	changed, err := checker.Persist(l.ctx, row, op, status)
	if err != nil {
		l.Errorf("update tracked transaction %s: %v", txHash, err)
	} else if changed {
		l.Infof("transaction %s moved to %s", txHash, status)
	}
	if isTerminal(row.Status) {
		resp.Status = row.Status
	}
	return resp, nil
}
