package entity

import (
	"time"

	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
)

// BalanceChangeType tags which leg of a transfer a ledger line records
type BalanceChangeType string

const (
	// TransferOut is the debit leg (negative delta on the sender)
	TransferOut BalanceChangeType = "TRANSFER_OUT"
	// TransferIn is the credit leg (positive delta on the recipient)
	TransferIn BalanceChangeType = "TRANSFER_IN"
)

// BalanceChange is one append-only audit line: a signed balance delta caused
// by one transfer, together with the balance and version it produced.
// Exactly two lines exist per completed transfer and zero for any other
// outcome. The (ExternalID, Type) pair is unique, which is what makes a
// transfer's effect at-most-once even if application is retried.
type BalanceChange struct {
	ID               uint64
	ExternalID       uint64 // transfer id
	Type             BalanceChangeType
	UserID           string
	DeltaInCents     int64 // negative for TRANSFER_OUT, positive for TRANSFER_IN
	ResultingBalance int64
	ResultingVersion int64
	CreatedAt        time.Time
}

// NewDebitChange records the sender's side of a completed transfer
func NewDebitChange(transferID uint64, userID string, amountCents, resultingBalance, resultingVersion int64, timeProvider coreport.TimeProvider) *BalanceChange {
	return &BalanceChange{
		ExternalID:       transferID,
		Type:             TransferOut,
		UserID:           userID,
		DeltaInCents:     -amountCents,
		ResultingBalance: resultingBalance,
		ResultingVersion: resultingVersion,
		CreatedAt:        timeProvider.Now(),
	}
}

// NewCreditChange records the recipient's side of a completed transfer
func NewCreditChange(transferID uint64, userID string, amountCents, resultingBalance, resultingVersion int64, timeProvider coreport.TimeProvider) *BalanceChange {
	return &BalanceChange{
		ExternalID:       transferID,
		Type:             TransferIn,
		UserID:           userID,
		DeltaInCents:     amountCents,
		ResultingBalance: resultingBalance,
		ResultingVersion: resultingVersion,
		CreatedAt:        timeProvider.Now(),
	}
}
