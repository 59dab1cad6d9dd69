package model

import "time"

// DeviceRegistry corresponds to the device_registry table in the database.
type DeviceRegistry struct {
	Id            string     `gorm:"column:id;primaryKey"`
	OwnerId       string     `gorm:"column:owner_id;index"`
	DeviceId      string     `gorm:"column:device_id;uniqueIndex"`
	Name          string     `gorm:"column:name"`
	DeviceType    string     `gorm:"column:device_type"`
	DeviceKeyHash string     `gorm:"column:device_key_hash"`
	Status        string     `gorm:"column:status"`
	Location      string     `gorm:"column:location"`
	CapacityKw    float64    `gorm:"column:capacity_kw"`
	TotalKwh      float64    `gorm:"column:total_kwh"`
	UptimePct     float64    `gorm:"column:uptime_pct"`
	LastSeenAt    *time.Time `gorm:"column:last_seen_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (DeviceRegistry) TableName() string {
	return "device_registry"
}

// DeviceEvent is the registry-side effect of one device report.
type DeviceEvent struct {
	Status    string
	SeenAt    time.Time
	AddKwh    float64
	UptimePct *float64
}
