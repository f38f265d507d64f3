package persistence

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
)

// UserBalanceRepository owns the durable per-user balance rows. All balance
// mutation goes through CompareAndApply; there is no unconditional update.
type UserBalanceRepository interface {
	// Create inserts a new user balance with version 0.
	//
	// Possible errors:
	// - ErrDuplicateUser: a balance for this user id already exists
	// - ErrDatabaseConnection: the store is unreachable
	Create(ctx context.Context, balance *entity.UserBalance) error

	// GetByID retrieves a user balance.
	//
	// Possible errors:
	// - ErrUserNotFound (UserNotFoundError): no such user
	// - ErrDatabaseConnection: the store is unreachable
	GetByID(ctx context.Context, userID string) (*entity.UserBalance, error)

	// CompareAndApply atomically adds deltaCents (signed) to the balance and
	// increments the version, but only if the stored version still equals
	// expectedVersion and the resulting balance would be non-negative.
	// Returns the updated balance on success.
	//
	// Possible errors:
	// - ErrVersionConflict: the row moved since expectedVersion was read
	// - ErrInsufficientBalance (InsufficientBalanceError): result would be negative
	// - ErrUserNotFound (UserNotFoundError): no such user
	// - ErrDatabaseConnection: the store is unreachable
	CompareAndApply(ctx context.Context, userID string, expectedVersion, deltaCents int64) (*entity.UserBalance, error)
}
