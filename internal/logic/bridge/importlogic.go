package bridge

import (
	"context"
	"errors"
	"strings"
	"time"

	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/metrics"
	"tempo/internal/middleware"
	"tempo/internal/model"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	errAlreadyImported = "transaction already imported"
	receiptTimeout     = 10 * time.Second
)

type ImportTxLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewImportTxLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ImportTxLogic {
	return &ImportTxLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// ImportTx starts tracking a Wormhole transfer the user submitted elsewhere.
func (l *ImportTxLogic) ImportTx(req *types.ImportTxReq) (*types.ImportTxResp, error) {
	userId := middleware.UserIdFrom(l.ctx)
	if userId == "" {
		return nil, errorx.Unauthorized("authentication required")
	}

	txHash := strings.ToLower(strings.TrimSpace(req.TxHash))
	if !constant.IsValidTxHash(txHash) {
		metrics.BridgeImports.WithLabelValues("invalid").Inc()
		return nil, errorx.BadRequest("invalid transaction hash format")
	}
	if _, ok := l.svcCtx.Config.Chain(req.SourceChain); !ok {
		return nil, errorx.BadRequest("unsupported source chain: " + req.SourceChain)
	}
	if req.TargetChain != "" {
		if _, ok := l.svcCtx.Config.Chain(req.TargetChain); !ok {
			return nil, errorx.BadRequest("unsupported target chain: " + req.TargetChain)
		}
	}

	_, err := l.svcCtx.WormholeTransactionsDao.FindOneByTxHash(l.ctx, txHash)
	switch {
	case err == nil:
		metrics.BridgeImports.WithLabelValues("duplicate").Inc()
		return nil, errorx.Conflict(errAlreadyImported)
	case !errors.Is(err, model.ErrNotFound):
		l.Errorf("lookup %s: %v", txHash, err)
		return nil, err
	}

	if err := l.verifyReceipt(req.SourceChain, txHash); err != nil {
		metrics.BridgeImports.WithLabelValues("rejected").Inc()
		return nil, err
	}

	row := &model.WormholeTransactions{
		Id:            uuid.NewString(),
		UserId:        userId,
		TxHash:        txHash,
		WalletAddress: strings.ToLower(req.WalletAddress),
		SourceChain:   req.SourceChain,
		TargetChain:   req.TargetChain,
		TokenSymbol:   req.TokenSymbol,
		Amount:        req.Amount,
		Status:        constant.TxStatusPending,
	}

	checker := NewStatusChecker(l.svcCtx.WormholeScan, l.svcCtx.WormholeTransactionsDao, clockwork.NewRealClock())
	op, status, err := checker.Resolve(l.ctx, txHash)
	if err != nil {
		// The poller picks the row up later.
		l.Errorf("seed status for %s: %v", txHash, err)
	} else {
		now := time.Now().UTC()
		row.Status = status
		row.LastCheckedAt = &now
		if status == constant.TxStatusCompleted {
			row.CompletedAt = &now
		}
		if op != nil {
			row.OperationId = op.Id
			row.Vaa = op.Vaa
			row.TargetTxHash = op.TargetTxHash
			if row.TokenSymbol == "" {
				row.TokenSymbol = op.TokenSymbol
			}
			if row.Amount == "" {
				row.Amount = op.TokenAmount
			}
		}
	}

	if err := l.svcCtx.WormholeTransactionsDao.Insert(l.ctx, row); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			metrics.BridgeImports.WithLabelValues("duplicate").Inc()
			return nil, errorx.Conflict(errAlreadyImported)
		}
		l.Errorf("insert %s: %v", txHash, err)
		return nil, err
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	metrics.BridgeImports.WithLabelValues("imported").Inc()
	l.Infof("imported %s on %s for user %s with status %s", txHash, req.SourceChain, userId, row.Status)
	return &types.ImportTxResp{
		Transaction: toBridgeTransaction(row, l.svcCtx.Config.Chains),
	}, nil
}

// verifyReceipt rejects hashes the source chain does not know or that reverted.
// A chain without RPC or an unreachable RPC skips the check.
func (l *ImportTxLogic) verifyReceipt(chainKey, txHash string) error {
	client, err := l.svcCtx.Chains.Client(l.ctx, chainKey)
	if err != nil {
		l.Infof("skip receipt check for %s: %v", txHash, err)
		return nil
	}

	ctx, cancel := context.WithTimeout(l.ctx, receiptTimeout)
	defer cancel()
	receipt, err := client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return errorx.BadRequest("transaction not found on " + chainKey)
		}
		l.Errorf("receipt check for %s failed, importing unverified: %v", txHash, err)
		return nil
	}
	if receipt.Status != evmTypes.ReceiptStatusSuccessful {
		return errorx.BadRequest("transaction reverted on " + chainKey)
	}
	return nil
}
