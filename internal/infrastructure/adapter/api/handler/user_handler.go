package handler

import (
	"net/http"

	domainerr "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	balanceService usecase.BalanceService
	logger         coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(balanceService usecase.BalanceService, logger coreport.Logger) *UserHandler {
	return &UserHandler{
		balanceService: balanceService,
		logger:         logger,
	}
}

// CreateUser handles the POST /users endpoint
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Reason:  domainerr.ReasonInvalidArgument,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	initialBalance := req.InitialBalance.String()
	if initialBalance == "" {
		initialBalance = "0"
	}

	result, err := h.balanceService.CreateUser(c.Request.Context(), req.UserID, initialBalance)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{
		UserID:  result.UserID,
		Balance: result.Balance,
		Version: result.Version,
	})
}

// GetBalance handles the GET /users/{userId}/balance endpoint
func (h *UserHandler) GetBalance(c *gin.Context) {
	userID := c.Param("userId")

	result, err := h.balanceService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  result.UserID,
		Balance: result.Balance,
		Version: result.Version,
	})
}
