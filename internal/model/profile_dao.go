package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfilesDao interface {
	FindOne(ctx context.Context, id string) (*Profiles, error)
	Upsert(ctx context.Context, data *Profiles) error
}

type profilesDao struct {
	db *gorm.DB
}

func NewProfilesDao(db *gorm.DB) ProfilesDao {
	return &profilesDao{
		db: db,
	}
}

func (d *profilesDao) FindOne(ctx context.Context, id string) (*Profiles, error) {
	var resp Profiles
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

func (d *profilesDao) Upsert(ctx context.Context, data *Profiles) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "preferred_chain", "updated_at"}),
		}).
		Create(data).Error
}
