package model

import "time"

// DepinRewards corresponds to the depin_rewards table in the database.
type DepinRewards struct {
	Id          string    `gorm:"column:id;primaryKey"`
	DeviceId    string    `gorm:"column:device_id;index"`
	OwnerId     string    `gorm:"column:owner_id;index"`
	Kwh         float64   `gorm:"column:kwh"`
	Rate        float64   `gorm:"column:rate"`
	Multiplier  float64   `gorm:"column:multiplier"`
	UptimeBonus float64   `gorm:"column:uptime_bonus"`
	Amount      float64   `gorm:"column:amount"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (DepinRewards) TableName() string {
	return "depin_rewards"
}

type RewardTotals struct {
	Total float64
	Count int64
}
