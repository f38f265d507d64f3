package dto

import (
	"encoding/json"
	"time"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/usecase"
)

// CreateTransferRequest is the payload for submitting a transfer
type CreateTransferRequest struct {
	FromUserID string      `json:"fromUserId" binding:"required"`
	ToUserID   string      `json:"toUserId" binding:"required"`
	Amount     json.Number `json:"amount"`
}

// TransferResponse represents one transfer
type TransferResponse struct {
	ID            uint64     `json:"id"`
	FromUserID    string     `json:"fromUserId"`
	ToUserID      string     `json:"toUserId"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
}

// NewTransferResponse builds a TransferResponse from the domain entity
func NewTransferResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:            t.ID,
		FromUserID:    t.FromUserID,
		ToUserID:      t.ToUserID,
		Amount:        t.FormattedAmount(),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
		CancelledAt:   t.CancelledAt,
		FailureReason: t.FailureReason,
	}
}

// PaginationMeta describes one page of a listing
type PaginationMeta struct {
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// HistoryResponse is one page of a user's transfer history
type HistoryResponse struct {
	Transfers  []TransferResponse `json:"transfers"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewHistoryResponse builds a HistoryResponse from the domain page
func NewHistoryResponse(page *usecase.HistoryPage) HistoryResponse {
	transfers := make([]TransferResponse, 0, len(page.Transfers))
	for _, t := range page.Transfers {
		transfers = append(transfers, NewTransferResponse(t))
	}
	return HistoryResponse{
		Transfers: transfers,
		Pagination: PaginationMeta{
			CurrentPage:   page.Meta.CurrentPage,
			PageSize:      page.Meta.PageSize,
			TotalElements: page.Meta.TotalElements,
			TotalPages:    page.Meta.TotalPages,
			HasNext:       page.Meta.HasNext,
			HasPrevious:   page.Meta.HasPrevious,
		},
	}
}
