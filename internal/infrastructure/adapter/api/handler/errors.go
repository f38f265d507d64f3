package handler

import (
	"net/http"

	domainerr "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// statusForError maps a domain error to its HTTP status code
func statusForError(err error) int {
	switch domainerr.Reason(err) {
	case domainerr.ReasonUserNotFound, domainerr.ReasonTransferNotFound:
		return http.StatusNotFound
	case domainerr.ReasonUserExists:
		return http.StatusConflict
	case domainerr.ReasonInvalidArgument, domainerr.ReasonSelfTransfer, domainerr.ReasonInsufficientBalance,
		domainerr.ReasonInvalidState, domainerr.ReasonWindowExpired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a domain error as the standard error envelope.
// Business rejections log at warn, server faults at error; the envelope
// never leaks internals for 5xx responses.
func writeError(c *gin.Context, logger coreport.Logger, err error) {
	status := statusForError(err)

	fields := map[string]any{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
		"status": status,
		"error":  err.Error(),
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", fields)
		message = "Internal server error"
	} else {
		logger.Warn("Request rejected", fields)
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Reason:  domainerr.Reason(err),
		Message: message,
	})
}
