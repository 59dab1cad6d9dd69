package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// WormholeTransactionsDao defines the interface for database operations on the wormhole_transactions table.
type WormholeTransactionsDao interface {
	Insert(ctx context.Context, data *WormholeTransactions) error
	FindOneByTxHash(ctx context.Context, txHash string) (*WormholeTransactions, error)
	FindByUser(ctx context.Context, userId string, limit int) ([]*WormholeTransactions, error)
	FindByStatus(ctx context.Context, statuses []string, limit int) ([]*WormholeTransactions, error)
	UpdateStatus(ctx context.Context, id string, update StatusUpdate) error
}

type wormholeTransactionsDao struct {
	db *gorm.DB
}

// NewWormholeTransactionsDao creates a new instance of WormholeTransactionsDao.
func NewWormholeTransactionsDao(db *gorm.DB) WormholeTransactionsDao {
	return &wormholeTransactionsDao{
		db: db,
	}
}

// Insert adds a new record. A second insert of the same tx_hash returns ErrDuplicate.
func (d *wormholeTransactionsDao) Insert(ctx context.Context, data *WormholeTransactions) error {
	return d.db.WithContext(ctx).Create(data).Error
}

func (d *wormholeTransactionsDao) FindOneByTxHash(ctx context.Context, txHash string) (*WormholeTransactions, error) {
	var resp WormholeTransactions
	err := d.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

// FindByUser returns the user's transactions, newest first.
func (d *wormholeTransactionsDao) FindByUser(ctx context.Context, userId string, limit int) ([]*WormholeTransactions, error) {
	var list []*WormholeTransactions
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// FindByStatus returns the least recently checked rows in any of the given statuses.
func (d *wormholeTransactionsDao) FindByStatus(ctx context.Context, statuses []string, limit int) ([]*WormholeTransactions, error) {
	var list []*WormholeTransactions
	err := d.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("last_checked_at ASC NULLS FIRST").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (d *wormholeTransactionsDao) UpdateStatus(ctx context.Context, id string, update StatusUpdate) error {
	values := map[string]any{
		"status":          update.Status,
		"last_checked_at": update.CheckedAt,
		"updated_at":      update.CheckedAt,
	}
	if update.OperationId != "" {
		values["operation_id"] = update.OperationId
	}
	if update.Vaa != "" {
		values["vaa"] = update.Vaa
	}
	if update.TargetTxHash != "" {
		values["target_tx_hash"] = update.TargetTxHash
	}
	if update.CompletedAt != nil {
		values["completed_at"] = *update.CompletedAt
	}
	return d.db.WithContext(ctx).
		Model(&WormholeTransactions{}).
		Where("id = ?", id).
		Updates(values).Error
}
