package database

import (
	"context"
	"fmt"

	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// Resetter wipes all service data. Intended for development and test
// environments; there is deliberately no code path that calls this from the
// API server.
type Resetter struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewResetter creates a new Resetter
func NewResetter(db *gorm.DB, logger coreport.Logger) *Resetter {
	return &Resetter{db: db, logger: logger}
}

// ResetAll deletes all rows from the service tables. Deletion order follows
// the reference direction: ledger lines first, then transfers, then user
// balances.
func (r *Resetter) ResetAll(ctx context.Context) error {
	tables := []string{"balance_changes", "transfers", "user_balances"}

	for _, table := range tables {
		result := r.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s", table))
		if result.Error != nil {
			r.logger.Error("Failed to clear table", map[string]any{
				"table": table,
				"error": result.Error.Error(),
			})
			return fmt.Errorf("failed to clear table %s: %w", table, result.Error)
		}

		r.logger.Info("Cleared table", map[string]any{
			"table":        table,
			"rows_deleted": result.RowsAffected,
		})
	}

	return nil
}
