package model

import (
	"time"
)

// BalanceChange represents one append-only audit line. The unique index on
// (external_id, type) enforces at-most-once application of each transfer leg
// at the storage level.
type BalanceChange struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	ExternalID       uint64    `gorm:"not null;uniqueIndex:uidx_balance_changes_external_type,priority:1"`
	Type             string    `gorm:"not null;size:20;uniqueIndex:uidx_balance_changes_external_type,priority:2"`
	UserID           string    `gorm:"not null;size:50;index"`
	DeltaInCents     int64     `gorm:"not null"`
	ResultingBalance int64     `gorm:"not null"`
	ResultingVersion int64     `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for BalanceChange
func (BalanceChange) TableName() string {
	return "balance_changes"
}
