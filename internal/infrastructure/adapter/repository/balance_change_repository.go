package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// BalanceChangeRepository implements the audit ledger repository using GORM
type BalanceChangeRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBalanceChangeRepository creates a new BalanceChangeRepository instance
func NewBalanceChangeRepository(db *gorm.DB, logger coreport.Logger) *BalanceChangeRepository {
	return &BalanceChangeRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a balance change model to an entity
func (r *BalanceChangeRepository) modelToEntity(m *model.BalanceChange) *entity.BalanceChange {
	return &entity.BalanceChange{
		ID:               m.ID,
		ExternalID:       m.ExternalID,
		Type:             entity.BalanceChangeType(m.Type),
		UserID:           m.UserID,
		DeltaInCents:     m.DeltaInCents,
		ResultingBalance: m.ResultingBalance,
		ResultingVersion: m.ResultingVersion,
		CreatedAt:        m.CreatedAt,
	}
}

// Create appends one ledger line. A unique-key violation means this leg was
// already recorded by an earlier attempt.
func (r *BalanceChangeRepository) Create(ctx context.Context, change *entity.BalanceChange) error {
	changeModel := model.BalanceChange{
		ExternalID:       change.ExternalID,
		Type:             string(change.Type),
		UserID:           change.UserID,
		DeltaInCents:     change.DeltaInCents,
		ResultingBalance: change.ResultingBalance,
		ResultingVersion: change.ResultingVersion,
		CreatedAt:        change.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&changeModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Balance change already recorded", map[string]any{
				"external_id": change.ExternalID,
				"type":        string(change.Type),
			})
			return errs.ErrDuplicateBalanceChange
		}
		r.logger.Error("Database error when creating balance change", map[string]any{
			"external_id": change.ExternalID,
			"type":        string(change.Type),
			"error":       result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	change.ID = changeModel.ID
	return nil
}

// FindByExternalIDAndType looks up one leg's ledger line, returning
// (nil, nil) when it does not exist
func (r *BalanceChangeRepository) FindByExternalIDAndType(ctx context.Context, externalID uint64, changeType entity.BalanceChangeType) (*entity.BalanceChange, error) {
	var changeModel model.BalanceChange
	result := r.db.WithContext(ctx).
		First(&changeModel, "external_id = ? AND type = ?", externalID, string(changeType))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Database error when finding balance change", map[string]any{
			"external_id": externalID,
			"type":        string(changeType),
			"error":       result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&changeModel), nil
}
