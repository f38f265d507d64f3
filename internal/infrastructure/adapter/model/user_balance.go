package model

import (
	"time"
)

// UserBalance represents the database model for user balances
type UserBalance struct {
	UserID    string    `gorm:"primaryKey;size:50"`
	Balance   int64     `gorm:"not null"` // Balance in cents
	Version   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for UserBalance
func (UserBalance) TableName() string {
	return "user_balances"
}
