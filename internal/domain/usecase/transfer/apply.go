package transfer

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/persistence"
)

// Apply settles one PENDING transfer: debit the sender, credit the
// recipient, record both ledger lines and flip the status to COMPLETED, all
// inside a single store transaction. The status transition runs last with a
// PENDING guard, so a cancellation that lands mid-settlement wins and the
// whole transaction rolls back.
//
// A sender whose balance no longer covers the amount fails the transfer
// (terminal FAILED, no ledger lines, recipient untouched). Version
// conflicts on either balance are retried a bounded number of times; if the
// budget runs out the transfer stays PENDING for the next sweep.
func (s *Service) Apply(ctx context.Context, transferID uint64) error {
	transfer, err := s.uow.GetTransferRepository(ctx).GetByID(ctx, transferID)
	if err != nil {
		return err
	}
	if transfer.Status != entity.TransferPending {
		// Already settled or cancelled, nothing to do
		return nil
	}

	// A recorded debit leg means an earlier attempt already moved the money
	// for this transfer; the unique (external_id, type) key makes the legs
	// at-most-once. Finish the status flip instead of settling again.
	debitLeg, err := s.uow.GetBalanceChangeRepository(ctx).FindByExternalIDAndType(ctx, transferID, entity.TransferOut)
	if err != nil {
		return err
	}
	if debitLeg != nil {
		return s.complete(ctx, transfer)
	}

	err = s.settle(ctx, transfer)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrInsufficientBalance):
		return s.fail(ctx, transfer, err)
	case errors.Is(err, errs.ErrInvalidTransferState):
		// Lost the race to a cancellation; the rollback already undid
		// the balance mutations
		s.logger.Info("settlement superseded by cancellation", map[string]any{
			"transfer_id": transferID,
		})
		return nil
	default:
		return err
	}
}

// settle runs the settlement transaction for a PENDING transfer
func (s *Service) settle(ctx context.Context, transfer *entity.Transfer) error {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("settlement rollback failed", map[string]any{
					"transfer_id": transfer.ID,
					"error":       rbErr.Error(),
				})
			}
		}
	}()

	balanceRepo := s.uow.GetUserBalanceRepository(txCtx)

	debited, err := s.applyDelta(txCtx, balanceRepo, transfer.FromUserID, -transfer.AmountInCents)
	if err != nil {
		return err
	}
	credited, err := s.applyDelta(txCtx, balanceRepo, transfer.ToUserID, transfer.AmountInCents)
	if err != nil {
		return err
	}

	changeRepo := s.uow.GetBalanceChangeRepository(txCtx)
	debitLine := entity.NewDebitChange(
		transfer.ID, transfer.FromUserID, transfer.AmountInCents,
		debited.Balance(), debited.Version, s.timeProvider,
	)
	creditLine := entity.NewCreditChange(
		transfer.ID, transfer.ToUserID, transfer.AmountInCents,
		credited.Balance(), credited.Version, s.timeProvider,
	)
	if err := changeRepo.Create(txCtx, debitLine); err != nil {
		return err
	}
	if err := changeRepo.Create(txCtx, creditLine); err != nil {
		return err
	}

	if _, err := s.uow.GetTransferRepository(txCtx).Transition(
		txCtx,
		transfer.ID,
		[]entity.TransferStatus{entity.TransferPending},
		entity.TransferCompleted,
		s.timeProvider.Now(),
		"",
	); err != nil {
		return err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return err
	}
	committed = true

	s.cache.Invalidate(ctx, transfer.FromUserID, transfer.ToUserID)

	s.logger.Info("transfer completed", map[string]any{
		"transfer_id":  transfer.ID,
		"from_user_id": transfer.FromUserID,
		"to_user_id":   transfer.ToUserID,
		"amount":       transfer.FormattedAmount(),
	})
	return nil
}

// applyDelta performs one conditional balance mutation, re-reading and
// retrying on version conflicts up to the configured budget
func (s *Service) applyDelta(ctx context.Context, repo persistence.UserBalanceRepository, userID string, deltaCents int64) (*entity.UserBalance, error) {
	var lastErr error
	for attempt := 0; attempt < s.config.MaxApplyRetries; attempt++ {
		current, err := repo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		updated, err := repo.CompareAndApply(ctx, userID, current.Version, deltaCents)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, errs.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// complete flips a transfer whose money already moved to COMPLETED
func (s *Service) complete(ctx context.Context, transfer *entity.Transfer) error {
	_, err := s.uow.GetTransferRepository(ctx).Transition(
		ctx,
		transfer.ID,
		[]entity.TransferStatus{entity.TransferPending},
		entity.TransferCompleted,
		s.timeProvider.Now(),
		"",
	)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidTransferState) {
			// Raced with a cancellation, the cancel outcome stands
			return nil
		}
		return err
	}

	s.cache.Invalidate(ctx, transfer.FromUserID, transfer.ToUserID)

	s.logger.Info("transfer completed", map[string]any{
		"transfer_id":  transfer.ID,
		"from_user_id": transfer.FromUserID,
		"to_user_id":   transfer.ToUserID,
		"amount":       transfer.FormattedAmount(),
	})
	return nil
}

// fail marks a transfer FAILED outside any transaction, recording why
func (s *Service) fail(ctx context.Context, transfer *entity.Transfer, cause error) error {
	_, err := s.uow.GetTransferRepository(ctx).Transition(
		ctx,
		transfer.ID,
		[]entity.TransferStatus{entity.TransferPending},
		entity.TransferFailed,
		s.timeProvider.Now(),
		cause.Error(),
	)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidTransferState) {
			// Raced with a cancellation, the cancel outcome stands
			return nil
		}
		return err
	}

	s.logger.Warn("transfer failed", map[string]any{
		"transfer_id":  transfer.ID,
		"from_user_id": transfer.FromUserID,
		"to_user_id":   transfer.ToUserID,
		"reason":       cause.Error(),
	})
	return nil
}
