package usecase

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
)

// PageMeta describes one page of a paginated listing
type PageMeta struct {
	CurrentPage   int
	PageSize      int
	TotalElements int64
	TotalPages    int
	HasNext       bool
	HasPrevious   bool
}

// HistoryPage is one page of a user's transfer history
type HistoryPage struct {
	Transfers []*entity.Transfer
	Meta      PageMeta
}

// TransferService exposes the transfer lifecycle: submission, cancellation
// and history. Settlement itself runs in the background processor.
type TransferService interface {
	// Submit validates and records a new transfer in PENDING state. The
	// sender's available balance is checked up front; a transfer that
	// cannot possibly settle is rejected without leaving a row behind.
	//
	// Possible errors:
	// - ErrInvalidUserID, ErrInvalidAmount, ErrNegativeAmount, ErrSelfTransfer
	// - ErrUserNotFound (UserNotFoundError): sender or recipient missing
	// - ErrInsufficientBalance (InsufficientBalanceError)
	Submit(ctx context.Context, fromUserID, toUserID, amount string) (*entity.Transfer, error)

	// Cancel moves a PENDING transfer to CANCELLED when it is still inside
	// the cancellation window. A transfer created exactly one window ago is
	// still cancellable.
	//
	// Possible errors:
	// - ErrTransferNotFound (TransferNotFoundError)
	// - ErrInvalidTransferState (InvalidTransferStateError): already terminal
	// - ErrCancelWindowExpired
	Cancel(ctx context.Context, transferID uint64) (*entity.Transfer, error)

	// GetByID returns one transfer.
	//
	// Possible errors:
	// - ErrTransferNotFound (TransferNotFoundError)
	GetByID(ctx context.Context, transferID uint64) (*entity.Transfer, error)

	// History returns one page of the user's transfer history, newest
	// first. page is zero-based; size is clamped to the configured maximum
	// by validation, not silently.
	//
	// Possible errors:
	// - ErrInvalidUserID
	// - ErrInvalidPageRequest: page < 0 or size outside [1, 100]
	// - ErrUserNotFound (UserNotFoundError)
	History(ctx context.Context, userID string, page, size int) (*HistoryPage, error)
}
