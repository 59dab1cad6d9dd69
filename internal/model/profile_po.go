package model

import "time"

// Profiles corresponds to the profiles table. Id is the auth user id.
type Profiles struct {
	Id             string    `gorm:"column:id;primaryKey"`
	DisplayName    string    `gorm:"column:display_name"`
	AvatarUrl      string    `gorm:"column:avatar_url"`
	PreferredChain string    `gorm:"column:preferred_chain"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Profiles) TableName() string {
	return "profiles"
}
