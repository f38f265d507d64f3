package model

import (
	"time"
)

// Transfer represents the database model for transfers. The composite
// indexes back the processor sweep (status + created_at) and the per-user
// history listing (user + created_at descending).
type Transfer struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID    string    `gorm:"not null;size:50;index:idx_transfers_from_user_created,priority:1"`
	ToUserID      string    `gorm:"not null;size:50;index:idx_transfers_to_user_created,priority:1"`
	AmountInCents int64     `gorm:"not null"`
	Status        string    `gorm:"not null;size:20;index:idx_transfers_status_created,priority:1"`
	CreatedAt     time.Time `gorm:"not null;index:idx_transfers_status_created,priority:2;index:idx_transfers_from_user_created,priority:2,sort:desc;index:idx_transfers_to_user_created,priority:2,sort:desc"`
	UpdatedAt     time.Time `gorm:"not null"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	FailureReason string `gorm:"size:255"`
}

// TableName specifies the table name for Transfer
func (Transfer) TableName() string {
	return "transfers"
}
