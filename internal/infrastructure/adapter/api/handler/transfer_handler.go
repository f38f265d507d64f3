package handler

import (
	"fmt"
	"net/http"
	"strconv"

	domainerr "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/usecase"
	transferUseCase "github.com/amirhossein-jamali/transfer-ledger/internal/domain/usecase/transfer"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles transfer-related HTTP requests
type TransferHandler struct {
	transferService usecase.TransferService
	logger          coreport.Logger
}

// NewTransferHandler creates a new transfer handler instance
func NewTransferHandler(transferService usecase.TransferService, logger coreport.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Submit handles the POST /transfers endpoint
func (h *TransferHandler) Submit(c *gin.Context) {
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAmount),
			Reason:  domainerr.ReasonInvalidArgument,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	transfer, err := h.transferService.Submit(c.Request.Context(), req.FromUserID, req.ToUserID, req.Amount.String())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransferResponse(transfer))
}

// Get handles the GET /transfers/{transferId} endpoint
func (h *TransferHandler) Get(c *gin.Context) {
	transferID, ok := h.parseTransferID(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), transferID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransferResponse(transfer))
}

// Cancel handles the POST /transfers/{transferId}/cancel endpoint
func (h *TransferHandler) Cancel(c *gin.Context) {
	transferID, ok := h.parseTransferID(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.Cancel(c.Request.Context(), transferID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransferResponse(transfer))
}

// History handles the GET /transfers?userId=&page=&size= endpoint
func (h *TransferHandler) History(c *gin.Context) {
	userID := c.Query("userId")

	page, ok := h.parseQueryInt(c, "page", 0)
	if !ok {
		return
	}
	size, ok := h.parseQueryInt(c, "size", transferUseCase.DefaultPageSize)
	if !ok {
		return
	}

	history, err := h.transferService.History(c.Request.Context(), userID, page, size)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(history))
}

// parseTransferID extracts the numeric transfer id from the path
func (h *TransferHandler) parseTransferID(c *gin.Context) (uint64, bool) {
	transferID, err := strconv.ParseUint(c.Param("transferId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrTransferNotFound),
			Reason:  domainerr.ReasonInvalidArgument,
			Message: "Invalid transfer ID format",
		})
		return 0, false
	}
	return transferID, true
}

// parseQueryInt reads an optional integer query parameter
func (h *TransferHandler) parseQueryInt(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidPageRequest),
			Reason:  domainerr.ReasonInvalidArgument,
			Message: fmt.Sprintf("Invalid %s parameter: %q", name, raw),
		})
		return 0, false
	}
	return value, true
}
