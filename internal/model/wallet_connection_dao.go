package model

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletConnectionsDao defines the interface for database operations on the wallet_connections table.
type WalletConnectionsDao interface {
	Upsert(ctx context.Context, data *WalletConnections) error
	Deactivate(ctx context.Context, userId, address, chain string) (int64, error)
	FindActiveByUser(ctx context.Context, userId string) ([]*WalletConnections, error)
}

type walletConnectionsDao struct {
	db *gorm.DB
}

// NewWalletConnectionsDao creates a new instance of WalletConnectionsDao.
func NewWalletConnectionsDao(db *gorm.DB) WalletConnectionsDao {
	return &walletConnectionsDao{
		db: db,
	}
}

// Upsert inserts a connection or reactivates the existing one for the same wallet.
func (d *walletConnectionsDao) Upsert(ctx context.Context, data *WalletConnections) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "address"}, {Name: "chain"}},
			DoUpdates: clause.AssignmentColumns([]string{"wallet_type", "is_active", "connected_at", "updated_at"}),
		}).
		Create(data).Error
}

func (d *walletConnectionsDao) Deactivate(ctx context.Context, userId, address, chain string) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&WalletConnections{}).
		Where("user_id = ? AND address = ? AND chain = ?", userId, address, chain).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (d *walletConnectionsDao) FindActiveByUser(ctx context.Context, userId string) ([]*WalletConnections, error) {
	var list []*WalletConnections
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userId, true).
		Order("connected_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
