package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// maxFailureReasonLength bounds the failure_reason column
const maxFailureReasonLength = 255

// TransferRepository implements the transfer repository using GORM
type TransferRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransferRepository creates a new TransferRepository instance
func NewTransferRepository(db *gorm.DB, logger coreport.Logger) *TransferRepository {
	return &TransferRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a transfer model to an entity
func (r *TransferRepository) modelToEntity(m *model.Transfer) *entity.Transfer {
	return &entity.Transfer{
		ID:            m.ID,
		FromUserID:    m.FromUserID,
		ToUserID:      m.ToUserID,
		AmountInCents: m.AmountInCents,
		Status:        entity.TransferStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CompletedAt:   m.CompletedAt,
		CancelledAt:   m.CancelledAt,
		FailureReason: m.FailureReason,
	}
}

// handleDatabaseError standardizes database error handling
func (r *TransferRepository) handleDatabaseError(operation string, err error, transferID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Transfer not found", map[string]any{
			"transfer_id": transferID,
		})
		return errs.NewTransferNotFoundError(transferID)
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"transfer_id": transferID,
		"error":       err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create inserts a new transfer row and backfills the generated id
func (r *TransferRepository) Create(ctx context.Context, transfer *entity.Transfer) error {
	transferModel := model.Transfer{
		FromUserID:    transfer.FromUserID,
		ToUserID:      transfer.ToUserID,
		AmountInCents: transfer.AmountInCents,
		Status:        string(transfer.Status),
		CreatedAt:     transfer.CreatedAt,
		UpdatedAt:     transfer.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&transferModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating transfer", result.Error, 0)
	}

	transfer.ID = transferModel.ID
	return nil
}

// GetByID retrieves a transfer by id
func (r *TransferRepository) GetByID(ctx context.Context, id uint64) (*entity.Transfer, error) {
	var transferModel model.Transfer
	result := r.db.WithContext(ctx).First(&transferModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting transfer", result.Error, id)
	}

	return r.modelToEntity(&transferModel), nil
}

// Transition performs the guarded status change. The status guard lives in
// the WHERE clause, so two racing callers resolve at the database: exactly
// one UPDATE affects the row, the other sees zero rows and reports the
// state it lost to.
func (r *TransferRepository) Transition(ctx context.Context, id uint64, fromStatuses []entity.TransferStatus, toStatus entity.TransferStatus, at time.Time, failureReason string) (*entity.Transfer, error) {
	statuses := make([]string, 0, len(fromStatuses))
	for _, s := range fromStatuses {
		statuses = append(statuses, string(s))
	}

	updates := map[string]interface{}{
		"status":     string(toStatus),
		"updated_at": at,
	}
	switch toStatus {
	case entity.TransferCompleted:
		updates["completed_at"] = at
	case entity.TransferCancelled:
		updates["cancelled_at"] = at
	case entity.TransferFailed:
		if len(failureReason) > maxFailureReasonLength {
			failureReason = failureReason[:maxFailureReasonLength]
		}
		updates["failure_reason"] = failureReason
	}

	result := r.db.WithContext(ctx).Model(&model.Transfer{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updates)
	if result.Error != nil {
		return nil, r.handleDatabaseError("transitioning transfer", result.Error, id)
	}

	if result.RowsAffected == 0 {
		var current model.Transfer
		readResult := r.db.WithContext(ctx).First(&current, id)
		if readResult.Error != nil {
			return nil, r.handleDatabaseError("re-reading transfer", readResult.Error, id)
		}

		r.logger.Debug("Transfer transition rejected", map[string]any{
			"transfer_id":    id,
			"current_status": current.Status,
			"target_status":  string(toStatus),
		})
		return nil, errs.NewInvalidTransferStateError(id, current.Status)
	}

	var updated model.Transfer
	readResult := r.db.WithContext(ctx).First(&updated, id)
	if readResult.Error != nil {
		return nil, r.handleDatabaseError("reading updated transfer", readResult.Error, id)
	}

	return r.modelToEntity(&updated), nil
}

// ListPending returns due PENDING transfers, oldest first
func (r *TransferRepository) ListPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Transfer, error) {
	var models []model.Transfer
	result := r.db.WithContext(ctx).
		Where("status = ? AND created_at <= ?", string(entity.TransferPending), cutoff).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Database error when listing pending transfers", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transfers := make([]*entity.Transfer, 0, len(models))
	for i := range models {
		transfers = append(transfers, r.modelToEntity(&models[i]))
	}
	return transfers, nil
}

// ListByUser returns one page of transfers touching the user, newest first,
// together with the total row count
func (r *TransferRepository) ListByUser(ctx context.Context, userID string, page, size int) ([]*entity.Transfer, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Transfer{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID)

	var total int64
	if result := base.Count(&total); result.Error != nil {
		r.logger.Error("Database error when counting transfers", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	var models []model.Transfer
	result := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Offset(page * size).
		Limit(size).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Database error when listing transfers", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transfers := make([]*entity.Transfer, 0, len(models))
	for i := range models {
		transfers = append(transfers, r.modelToEntity(&models[i]))
	}
	return transfers, total, nil
}
