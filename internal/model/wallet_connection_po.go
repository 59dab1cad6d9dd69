package model

import "time"

// WalletConnections corresponds to the wallet_connections table in the database.
// (user_id, address, chain) is unique.
type WalletConnections struct {
	Id          string    `gorm:"column:id;primaryKey"`
	UserId      string    `gorm:"column:user_id;index"`
	Address     string    `gorm:"column:address"`
	Chain       string    `gorm:"column:chain"`
	WalletType  string    `gorm:"column:wallet_type"`
	IsActive    bool      `gorm:"column:is_active"`
	ConnectedAt time.Time `gorm:"column:connected_at"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (WalletConnections) TableName() string {
	return "wallet_connections"
}
