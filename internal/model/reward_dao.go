package model

import (
	"context"

	"gorm.io/gorm"
)

// DepinRewardsDao defines the interface for database operations on the depin_rewards table.
type DepinRewardsDao interface {
	Insert(ctx context.Context, data *DepinRewards) error
	FindByOwner(ctx context.Context, ownerId string, limit int) ([]*DepinRewards, error)
	SumByOwner(ctx context.Context, ownerId string) (*RewardTotals, error)
}

type depinRewardsDao struct {
	db *gorm.DB
}

func NewDepinRewardsDao(db *gorm.DB) DepinRewardsDao {
	return &depinRewardsDao{
		db: db,
	}
}

func (d *depinRewardsDao) Insert(ctx context.Context, data *DepinRewards) error {
	return d.db.WithContext(ctx).Create(data).Error
}

func (d *depinRewardsDao) FindByOwner(ctx context.Context, ownerId string, limit int) ([]*DepinRewards, error) {
	var list []*DepinRewards
	err := d.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (d *depinRewardsDao) SumByOwner(ctx context.Context, ownerId string) (*RewardTotals, error) {
	var totals RewardTotals
	err := d.db.WithContext(ctx).
		Model(&DepinRewards{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("owner_id = ?", ownerId).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
