package bridge

import (
	"context"
	"strings"
	"time"

	"tempo/internal/config"
	"tempo/internal/constant"
	"tempo/internal/metrics"
	"tempo/internal/model"
	"tempo/internal/types"
	"tempo/internal/upstream/wormholescan"

	"github.com/jonboulle/clockwork"
)

// OperationFinder looks up the Wormhole operation of a source transaction.
type OperationFinder interface {
	OperationByTxHash(ctx context.Context, txHash string) (*wormholescan.Operation, error)
}

// MapOperationStatus reduces a WormholeScan operation to a stored status.
// A nil operation means WormholeScan has not indexed the transfer yet.
func MapOperationStatus(op *wormholescan.Operation) string {
	if op == nil {
		return constant.TxStatusPending
	}
	if strings.EqualFold(op.TargetStatus, "completed") || op.TargetTxHash != "" {
		return constant.TxStatusCompleted
	}
	if containsFold(op.SourceStatus, "fail") || containsFold(op.TargetStatus, "fail") {
		return constant.TxStatusFailed
	}
	if op.Vaa != "" {
		return constant.TxStatusVaaReady
	}
	return constant.TxStatusPending
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func isTerminal(status string) bool {
	return status == constant.TxStatusCompleted || status == constant.TxStatusFailed
}

// StatusChecker resolves transfer status against WormholeScan and writes it
// back to wormhole_transactions. The status endpoint and the poller share it.
type StatusChecker struct {
	finder OperationFinder
	dao    model.WormholeTransactionsDao
	clock  clockwork.Clock
}

func NewStatusChecker(finder OperationFinder, dao model.WormholeTransactionsDao, clock clockwork.Clock) *StatusChecker {
	return &StatusChecker{
		finder: finder,
		dao:    dao,
		clock:  clock,
	}
}

// Resolve fetches the operation and maps it.
func (c *StatusChecker) Resolve(ctx context.Context, txHash string) (*wormholescan.Operation, string, error) {
	op, err := c.finder.OperationByTxHash(ctx, txHash)
	if err != nil {
		metrics.BridgeStatusChecks.WithLabelValues("error").Inc()
		return nil, "", err
	}
	status := MapOperationStatus(op)
	metrics.BridgeStatusChecks.WithLabelValues(status).Inc()
	return op, status, nil
}

// Persist records a check on a tracked row. Rows already completed or failed
// keep their status. It reports whether the status changed.
func (c *StatusChecker) Persist(ctx context.Context, row *model.WormholeTransactions, op *wormholescan.Operation, status string) (bool, error) {
	if isTerminal(row.Status) {
		return false, nil
	}

	now := c.clock.Now().UTC()
	update := model.StatusUpdate{
		Status:    status,
		CheckedAt: now,
	}
	if op != nil {
		update.OperationId = op.Id
		update.Vaa = op.Vaa
		update.TargetTxHash = op.TargetTxHash
	}
	if status == constant.TxStatusCompleted && row.CompletedAt == nil {
		update.CompletedAt = &now
	}

	if err := c.dao.UpdateStatus(ctx, row.Id, update); err != nil {
		return false, err
	}

	changed := row.Status != status
	row.Status = status
	row.LastCheckedAt = &now
	if update.CompletedAt != nil {
		row.CompletedAt = update.CompletedAt
	}
	if op != nil {
		row.OperationId = op.Id
		row.Vaa = op.Vaa
		row.TargetTxHash = op.TargetTxHash
	}
	return changed, nil
}

func toBridgeTransaction(row *model.WormholeTransactions, chains map[string]config.ChainConf) types.BridgeTransaction {
	tx := types.BridgeTransaction{
		Id:            row.Id,
		TxHash:        row.TxHash,
		WalletAddress: row.WalletAddress,
		SourceChain:   row.SourceChain,
		TargetChain:   row.TargetChain,
		TokenSymbol:   row.TokenSymbol,
		Amount:        row.Amount,
		Status:        row.Status,
		OperationId:   row.OperationId,
		HasVaa:        row.Vaa != "",
		TargetTxHash:  row.TargetTxHash,
		CreatedAt:     row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c, ok := chains[row.SourceChain]; ok && c.ExplorerUrl != "" {
		tx.ExplorerUrl = strings.TrimRight(c.ExplorerUrl, "/") + "/tx/" + row.TxHash
	}
	if row.LastCheckedAt != nil {
		tx.LastCheckedAt = row.LastCheckedAt.UTC().Format(time.RFC3339)
	}
	if row.CompletedAt != nil {
		tx.CompletedAt = row.CompletedAt.UTC().Format(time.RFC3339)
	}
	return tx
}
