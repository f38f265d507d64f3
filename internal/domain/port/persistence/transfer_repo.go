package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
)

// TransferRepository owns the durable transfer rows and their guarded status
// transitions.
type TransferRepository interface {
	// Create inserts a transfer and assigns its id.
	Create(ctx context.Context, transfer *entity.Transfer) error

	// GetByID retrieves a transfer.
	//
	// Possible errors:
	// - ErrTransferNotFound (TransferNotFoundError)
	GetByID(ctx context.Context, id uint64) (*entity.Transfer, error)

	// Transition atomically moves the transfer to toStatus, but only when
	// its current status is one of fromStatuses. The timestamp column that
	// matches the target status (completed_at or cancelled_at) is set to
	// `at`; failureReason is recorded for FAILED targets. Returns the
	// updated transfer.
	//
	// This guard is the sole arbiter of races between completion and
	// cancellation: whichever caller wins proceeds, the loser gets
	// ErrInvalidTransferState (InvalidTransferStateError).
	//
	// Possible errors:
	// - ErrTransferNotFound (TransferNotFoundError)
	// - ErrInvalidTransferState (InvalidTransferStateError)
	Transition(ctx context.Context, id uint64, fromStatuses []entity.TransferStatus, toStatus entity.TransferStatus, at time.Time, failureReason string) (*entity.Transfer, error)

	// ListPending returns up to limit PENDING transfers created at or
	// before cutoff, oldest first. Used by the background processor.
	ListPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Transfer, error)

	// ListByUser returns one page of transfers where the user is sender or
	// recipient, ordered by created_at descending with id descending as the
	// tie-breaker, plus the total row count for the user.
	ListByUser(ctx context.Context, userID string, page, size int) ([]*entity.Transfer, int64, error)
}
