package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
)

// TransferStatus is the state of a transfer's lifecycle
type TransferStatus string

// Transfer statuses. PENDING is the only non-terminal state.
const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCancelled TransferStatus = "CANCELLED"
	TransferFailed    TransferStatus = "FAILED"
)

// allowedTransitions is the single source of truth for the transfer state
// machine. Terminal states map to an empty set.
var allowedTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:   {TransferCompleted, TransferCancelled, TransferFailed},
	TransferCompleted: {},
	TransferCancelled: {},
	TransferFailed:    {},
}

// IsTerminal reports whether no further transition is permitted from s
func (s TransferStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s != ""
}

// IsTransitionAllowed reports whether from -> to is a legal status change
func IsTransitionAllowed(from, to TransferStatus) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Transfer is one instance of the transfer state machine. It references two
// distinct user balances and moves a strictly positive amount between them.
// A transfer transitions exactly once from PENDING to a terminal state and
// is immutable afterwards, except for the terminal timestamp set at the
// same transition.
type Transfer struct {
	ID            uint64
	FromUserID    string
	ToUserID      string
	AmountInCents int64
	Status        TransferStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	FailureReason string
}

// NewTransfer validates the request and builds a PENDING transfer.
// Validation failures here never touch the store.
func NewTransfer(fromUserID, toUserID, amount string, timeProvider coreport.TimeProvider) (*Transfer, error) {
	if err := ValidateUserID(fromUserID); err != nil {
		return nil, err
	}
	if err := ValidateUserID(toUserID); err != nil {
		return nil, err
	}
	if fromUserID == toUserID {
		return nil, errs.ErrSelfTransfer
	}

	cents, err := ParsePositiveAmount(amount)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Transfer{
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		AmountInCents: cents,
		Status:        TransferPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// FormattedAmount returns the transfer amount as a two-decimal string
func (t *Transfer) FormattedAmount() string {
	return FormatAmount(t.AmountInCents)
}

// WithinCancelWindow reports whether the transfer can still be cancelled at
// the given instant. The boundary is inclusive: a cancellation arriving at
// exactly createdAt+window is accepted, one nanosecond later is not.
func (t *Transfer) WithinCancelWindow(now time.Time, window time.Duration) bool {
	return !now.After(t.CreatedAt.Add(window))
}
