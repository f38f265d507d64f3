package persistence

import (
	"context"
)

// UnitOfWork coordinates the repositories inside one store transaction.
// The debit, credit, ledger lines and status transition of a transfer must
// commit or roll back as a single unit; this is the cross-row atomicity the
// transfer engine relies on.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context. Rolling
	// back an already-finished transaction is a no-op.
	Rollback(ctx context.Context) error

	// GetUserBalanceRepository returns a balance repository bound to the
	// transaction in ctx (or the base connection when ctx carries none)
	GetUserBalanceRepository(ctx context.Context) UserBalanceRepository

	// GetTransferRepository returns a transfer repository bound to the
	// transaction in ctx
	GetTransferRepository(ctx context.Context) TransferRepository

	// GetBalanceChangeRepository returns a ledger repository bound to the
	// transaction in ctx
	GetBalanceChangeRepository(ctx context.Context) BalanceChangeRepository
}
