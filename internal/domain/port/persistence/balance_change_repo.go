package persistence

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
)

// BalanceChangeRepository owns the append-only audit ledger. Rows are never
// updated or deleted by the service.
type BalanceChangeRepository interface {
	// Create appends one ledger line. The (external_id, type) unique
	// constraint makes re-application of an already-applied transfer leg
	// fail closed.
	//
	// Possible errors:
	// - ErrDuplicateBalanceChange: this transfer leg was already recorded
	Create(ctx context.Context, change *entity.BalanceChange) error

	// FindByExternalIDAndType looks up the ledger line for one leg of a
	// transfer. Settlement uses it to detect a leg an earlier attempt
	// already applied.
	//
	// Returns (nil, nil) when no line exists.
	FindByExternalIDAndType(ctx context.Context, externalID uint64, changeType entity.BalanceChangeType) (*entity.BalanceChange, error)
}
