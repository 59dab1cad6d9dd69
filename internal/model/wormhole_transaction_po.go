package model

import "time"

// WormholeTransactions corresponds to the wormhole_transactions table in the database.
type WormholeTransactions struct {
	Id            string     `gorm:"column:id;primaryKey"`
	UserId        string     `gorm:"column:user_id;index"`
	TxHash        string     `gorm:"column:tx_hash;uniqueIndex"`
	WalletAddress string     `gorm:"column:wallet_address"`
	SourceChain   string     `gorm:"column:source_chain"`
	TargetChain   string     `gorm:"column:target_chain"`
	TokenSymbol   string     `gorm:"column:token_symbol"`
	Amount        string     `gorm:"column:amount"`
	Status        string     `gorm:"column:status;index"`
	OperationId   string     `gorm:"column:operation_id"`
	Vaa           string     `gorm:"column:vaa"`
	TargetTxHash  string     `gorm:"column:target_tx_hash"`
	LastCheckedAt *time.Time `gorm:"column:last_checked_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (WormholeTransactions) TableName() string {
	return "wormhole_transactions"
}

// StatusUpdate is the set of columns the status checker writes back.
type StatusUpdate struct {
	Status       string
	OperationId  string
	Vaa          string
	TargetTxHash string
	CheckedAt    time.Time
	CompletedAt  *time.Time
}
