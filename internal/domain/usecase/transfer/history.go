package transfer

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/usecase"
)

// Pagination bounds for history queries
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// History returns one page of the user's transfer history, sent and
// received, newest first.
func (s *Service) History(ctx context.Context, userID string, page, size int) (*usecase.HistoryPage, error) {
	if err := entity.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, errs.ErrInvalidPageRequest
	}
	if size < 1 || size > MaxPageSize {
		return nil, errs.ErrInvalidPageRequest
	}

	if _, err := s.uow.GetUserBalanceRepository(ctx).GetByID(ctx, userID); err != nil {
		return nil, err
	}

	transfers, total, err := s.uow.GetTransferRepository(ctx).ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &usecase.HistoryPage{
		Transfers: transfers,
		Meta: usecase.PageMeta{
			CurrentPage:   page,
			PageSize:      size,
			TotalElements: total,
			TotalPages:    totalPages,
			HasNext:       page < totalPages-1,
			HasPrevious:   page > 0,
		},
	}, nil
}
