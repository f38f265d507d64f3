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

// UserBalanceRepository implements the balance repository using GORM
type UserBalanceRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserBalanceRepository creates a new UserBalanceRepository instance
func NewUserBalanceRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserBalanceRepository {
	return &UserBalanceRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a balance model to an entity
func (r *UserBalanceRepository) modelToEntity(m *model.UserBalance) *entity.UserBalance {
	return entity.RestoreUserBalance(m.UserID, m.Balance, m.Version, m.CreatedAt, m.UpdatedAt)
}

// handleDatabaseError standardizes database error handling
func (r *UserBalanceRepository) handleDatabaseError(operation string, err error, userID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("User not found", map[string]any{
			"user_id": userID,
		})
		return errs.NewUserNotFoundError(userID)
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate user operation", map[string]any{
			"user_id": userID,
		})
		return errs.ErrDuplicateUser
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create inserts a new user balance row
func (r *UserBalanceRepository) Create(ctx context.Context, balance *entity.UserBalance) error {
	balanceModel := model.UserBalance{
		UserID:    balance.UserID,
		Balance:   balance.Balance(),
		Version:   balance.Version,
		CreatedAt: balance.CreatedAt,
		UpdatedAt: balance.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&balanceModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating user balance", result.Error, balance.UserID)
	}

	r.logger.Debug("User balance created", map[string]any{
		"user_id": balance.UserID,
		"balance": balance.FormattedBalance(),
	})
	return nil
}

// GetByID retrieves a user balance by user id
func (r *UserBalanceRepository) GetByID(ctx context.Context, userID string) (*entity.UserBalance, error) {
	var balanceModel model.UserBalance
	result := r.db.WithContext(ctx).First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user balance", result.Error, userID)
	}

	return r.modelToEntity(&balanceModel), nil
}

// CompareAndApply performs the conditional balance mutation. The single
// UPDATE carries both guards: the version equality for optimistic
// concurrency and the non-negative result for overdraft protection. Zero
// affected rows means one of the guards failed (or the user vanished); a
// follow-up read tells which.
func (r *UserBalanceRepository) CompareAndApply(ctx context.Context, userID string, expectedVersion, deltaCents int64) (*entity.UserBalance, error) {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Model(&model.UserBalance{}).
		Where("user_id = ? AND version = ? AND balance + ? >= 0", userID, expectedVersion, deltaCents).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", deltaCents),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, r.handleDatabaseError("applying balance change", result.Error, userID)
	}

	if result.RowsAffected == 0 {
		var current model.UserBalance
		readResult := r.db.WithContext(ctx).First(&current, "user_id = ?", userID)
		if readResult.Error != nil {
			return nil, r.handleDatabaseError("re-reading user balance", readResult.Error, userID)
		}

		if current.Version != expectedVersion {
			r.logger.Debug("Balance version conflict", map[string]any{
				"user_id":          userID,
				"expected_version": expectedVersion,
				"actual_version":   current.Version,
			})
			return nil, errs.ErrVersionConflict
		}

		return nil, errs.NewInsufficientBalanceError(
			userID,
			entity.FormatAmount(-deltaCents),
			entity.FormatAmount(current.Balance),
		)
	}

	var updated model.UserBalance
	readResult := r.db.WithContext(ctx).First(&updated, "user_id = ?", userID)
	if readResult.Error != nil {
		return nil, r.handleDatabaseError("reading updated balance", readResult.Error, userID)
	}

	return r.modelToEntity(&updated), nil
}
