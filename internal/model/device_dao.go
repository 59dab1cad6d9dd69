package model

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DeviceRegistryDao defines the interface for database operations on the device_registry table.
type DeviceRegistryDao interface {
	Insert(ctx context.Context, data *DeviceRegistry) error
	FindOneByDeviceId(ctx context.Context, deviceId string) (*DeviceRegistry, error)
	FindByOwner(ctx context.Context, ownerId string) ([]*DeviceRegistry, error)
	ApplyEvent(ctx context.Context, id string, event DeviceEvent) error
	// RecordMetric applies a metric event and inserts its reward in one transaction.
	RecordMetric(ctx context.Context, id string, event DeviceEvent, reward *DepinRewards) error
	MarkOfflineBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type deviceRegistryDao struct {
	db *gorm.DB
}

func NewDeviceRegistryDao(db *gorm.DB) DeviceRegistryDao {
	return &deviceRegistryDao{
		db: db,
	}
}

func (d *deviceRegistryDao) Insert(ctx context.Context, data *DeviceRegistry) error {
	return d.db.WithContext(ctx).Create(data).Error
}

func (d *deviceRegistryDao) FindOneByDeviceId(ctx context.Context, deviceId string) (*DeviceRegistry, error) {
	var resp DeviceRegistry
	err := d.db.WithContext(ctx).Where("device_id = ?", deviceId).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

func (d *deviceRegistryDao) FindByOwner(ctx context.Context, ownerId string) ([]*DeviceRegistry, error) {
	var list []*DeviceRegistry
	err := d.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ApplyEvent updates liveness and accumulates energy in one statement.
func (d *deviceRegistryDao) ApplyEvent(ctx context.Context, id string, event DeviceEvent) error {
	return applyEvent(d.db.WithContext(ctx), id, event)
}

func (d *deviceRegistryDao) RecordMetric(ctx context.Context, id string, event DeviceEvent, reward *DepinRewards) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyEvent(tx, id, event); err != nil {
			return err
		}
		return tx.Create(reward).Error
	})
}

func applyEvent(db *gorm.DB, id string, event DeviceEvent) error {
	values := map[string]any{
		"status":       event.Status,
		"last_seen_at": event.SeenAt,
		"updated_at":   event.SeenAt,
	}
	if event.AddKwh > 0 {
		values["total_kwh"] = gorm.Expr("total_kwh + ?", event.AddKwh)
	}
	if event.UptimePct != nil {
		values["uptime_pct"] = *event.UptimePct
	}
	return db.Model(&DeviceRegistry{}).
		Where("id = ?", id).
		Updates(values).Error
}

// MarkOfflineBefore flips every online device not seen since cutoff to offline.
func (d *deviceRegistryDao) MarkOfflineBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&DeviceRegistry{}).
		Where("status = ? AND last_seen_at < ?", "online", cutoff).
		Updates(map[string]any{"status": "offline", "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
