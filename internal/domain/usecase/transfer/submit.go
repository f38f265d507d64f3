package transfer

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
)

// Submit validates and records a new PENDING transfer. Both parties must
// exist and the sender's current balance must cover the amount; a request
// that cannot possibly settle is rejected here and leaves no row behind.
// The funds check is advisory only, the authoritative check happens again
// at settlement time.
func (s *Service) Submit(ctx context.Context, fromUserID, toUserID, amount string) (*entity.Transfer, error) {
	transfer, err := entity.NewTransfer(fromUserID, toUserID, amount, s.timeProvider)
	if err != nil {
		return nil, err
	}

	balanceRepo := s.uow.GetUserBalanceRepository(ctx)

	sender, err := balanceRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	if _, err := balanceRepo.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}

	if !sender.CanDebit(transfer.AmountInCents) {
		return nil, errs.NewInsufficientBalanceError(
			fromUserID,
			transfer.FormattedAmount(),
			sender.FormattedBalance(),
		)
	}

	if err := s.uow.GetTransferRepository(ctx).Create(ctx, transfer); err != nil {
		return nil, err
	}

	s.logger.Info("transfer submitted", map[string]any{
		"transfer_id":  transfer.ID,
		"from_user_id": fromUserID,
		"to_user_id":   toUserID,
		"amount":       transfer.FormattedAmount(),
	})

	return transfer, nil
}
