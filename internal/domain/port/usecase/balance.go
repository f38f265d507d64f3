package usecase

import (
	"context"
)

// BalanceResult is the read model for one user's balance
type BalanceResult struct {
	UserID    string
	Balance   string
	Version   int64
	FromCache bool
}

// BalanceService exposes account provisioning and balance reads
type BalanceService interface {
	// CreateUser provisions a new user with the given opening balance.
	//
	// Possible errors:
	// - ErrInvalidUserID: user id fails validation
	// - ErrInvalidAmount / ErrNegativeAmount: malformed opening balance
	// - ErrDuplicateUser: user already exists
	CreateUser(ctx context.Context, userID, initialBalance string) (*BalanceResult, error)

	// GetBalance returns the user's current balance, serving from cache
	// when a fresh snapshot is available.
	//
	// Possible errors:
	// - ErrInvalidUserID
	// - ErrUserNotFound (UserNotFoundError)
	GetBalance(ctx context.Context, userID string) (*BalanceResult, error)
}
