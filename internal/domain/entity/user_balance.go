package entity

import (
	"regexp"
	"time"

	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
)

// userIDPattern restricts identifiers to a safe literal character set.
// Anything else is rejected up front so identifiers are never interpreted
// downstream (SQL, cache keys, log lines).
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)

// ValidateUserID checks length and character-set rules for a user identifier
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return errs.ErrInvalidUserID
	}
	return nil
}

// UserBalance is a user's account balance with an optimistic-concurrency
// version counter. The version starts at 0 on creation and is incremented
// by every successful balance mutation; a write is only accepted against
// the version it read.
type UserBalance struct {
	UserID    string
	balance   int64 // cents, never negative at rest (private)
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserBalance creates a balance row for a new user. The initial balance
// must parse as a non-negative two-decimal amount.
func NewUserBalance(userID, initialBalance string, timeProvider coreport.TimeProvider) (*UserBalance, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}

	cents, err := ParseAmount(initialBalance)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &UserBalance{
		UserID:    userID,
		balance:   cents,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreUserBalance rebuilds an entity from persisted state. Used by
// repositories; does not re-run creation validation.
func RestoreUserBalance(userID string, balanceCents, version int64, createdAt, updatedAt time.Time) *UserBalance {
	return &UserBalance{
		UserID:    userID,
		balance:   balanceCents,
		Version:   version,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Balance returns the balance in cents
func (b *UserBalance) Balance() int64 {
	return b.balance
}

// FormattedBalance returns the balance as a two-decimal string
func (b *UserBalance) FormattedBalance() string {
	return FormatAmount(b.balance)
}

// CanDebit reports whether the balance covers a debit of the given amount
func (b *UserBalance) CanDebit(amountCents int64) bool {
	return b.balance >= amountCents
}
