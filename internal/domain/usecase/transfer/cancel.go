package transfer

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
)

// Cancel moves a PENDING transfer to CANCELLED when the cancellation window
// is still open. The checks run in order: existence, then state, then
// window, so a caller always learns the most specific rejection. The final
// guarded transition settles any race with concurrent settlement.
func (s *Service) Cancel(ctx context.Context, transferID uint64) (*entity.Transfer, error) {
	transferRepo := s.uow.GetTransferRepository(ctx)

	transfer, err := transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if transfer.Status != entity.TransferPending {
		return nil, errs.NewInvalidTransferStateError(transferID, string(transfer.Status))
	}

	now := s.timeProvider.Now()
	if !transfer.WithinCancelWindow(now, s.config.CancelWindow) {
		return nil, errs.ErrCancelWindowExpired
	}

	cancelled, err := transferRepo.Transition(
		ctx,
		transferID,
		[]entity.TransferStatus{entity.TransferPending},
		entity.TransferCancelled,
		now,
		"",
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer cancelled", map[string]any{
		"transfer_id":  transferID,
		"from_user_id": cancelled.FromUserID,
		"to_user_id":   cancelled.ToUserID,
	})

	return cancelled, nil
}
