package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBalanceService implements usecase.BalanceService with injectable funcs
type stubBalanceService struct {
	createUser func(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error)
	getBalance func(ctx context.Context, userID string) (*usecase.BalanceResult, error)
}

func (s *stubBalanceService) CreateUser(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
	return s.createUser(ctx, userID, initialBalance)
}

func (s *stubBalanceService) GetBalance(ctx context.Context, userID string) (*usecase.BalanceResult, error) {
	return s.getBalance(ctx, userID)
}

func newUserRouter(service usecase.BalanceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewUserHandler(service, logger.NewNoopLogger())
	router.POST("/users", handler.CreateUser)
	router.GET("/users/:userId/balance", handler.GetBalance)
	return router
}

func decodeErrorResponse(t *testing.T, body *bytes.Buffer) dto.ErrorResponse {
	t.Helper()
	var envelope dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func TestCreateUserHandler(t *testing.T) {
	t.Run("Successful creation returns 201", func(t *testing.T) {
		service := &stubBalanceService{
			createUser: func(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
				assert.Equal(t, "alice", userID)
				assert.Equal(t, "100.00", initialBalance)
				return &usecase.BalanceResult{UserID: "alice", Balance: "100.00", Version: 0}, nil
			},
		}
		router := newUserRouter(service)

		body := `{"userId": "alice", "initialBalance": "100.00"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.UserID)
		assert.Equal(t, "100.00", resp.Balance)
		assert.Equal(t, int64(0), resp.Version)
	})

	t.Run("Numeric initial balance is accepted", func(t *testing.T) {
		var got string
		service := &stubBalanceService{
			createUser: func(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
				got = initialBalance
				return &usecase.BalanceResult{UserID: userID, Balance: "50.00"}, nil
			},
		}
		router := newUserRouter(service)

		body := `{"userId": "alice", "initialBalance": 50.00}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "50.00", got)
	})

	t.Run("Missing initial balance defaults to zero", func(t *testing.T) {
		var got string
		service := &stubBalanceService{
			createUser: func(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
				got = initialBalance
				return &usecase.BalanceResult{UserID: userID, Balance: "0.00"}, nil
			},
		}
		router := newUserRouter(service)

		body := `{"userId": "alice"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "0", got)
	})

	t.Run("Duplicate user returns 409", func(t *testing.T) {
		service := &stubBalanceService{
			createUser: func(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
				return nil, errs.ErrDuplicateUser
			},
		}
		router := newUserRouter(service)

		body := `{"userId": "alice", "initialBalance": "1.00"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		envelope := decodeErrorResponse(t, w.Body)
		assert.Equal(t, errs.CodeDuplicateUser, envelope.Code)
		assert.Equal(t, errs.ReasonUserExists, envelope.Reason)
	})

	t.Run("Invalid amount returns 400", func(t *testing.T) {
		service := &stubBalanceService{
			createUser: func(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
				return nil, errs.ErrInvalidAmount
			},
		}
		router := newUserRouter(service)

		body := `{"userId": "alice", "initialBalance": "1.234"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		envelope := decodeErrorResponse(t, w.Body)
		assert.Equal(t, errs.ReasonInvalidArgument, envelope.Reason)
	})

	t.Run("Malformed JSON returns 400", func(t *testing.T) {
		service := &stubBalanceService{}
		router := newUserRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"userId":`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetBalanceHandler(t *testing.T) {
	t.Run("Successful lookup returns 200", func(t *testing.T) {
		service := &stubBalanceService{
			getBalance: func(ctx context.Context, userID string) (*usecase.BalanceResult, error) {
				assert.Equal(t, "alice", userID)
				return &usecase.BalanceResult{UserID: "alice", Balance: "42.50", Version: 7, FromCache: true}, nil
			},
		}
		router := newUserRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/alice/balance", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.BalanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.UserID)
		assert.Equal(t, "42.50", resp.Balance)
		assert.Equal(t, int64(7), resp.Version)
	})

	t.Run("Unknown user returns 404", func(t *testing.T) {
		service := &stubBalanceService{
			getBalance: func(ctx context.Context, userID string) (*usecase.BalanceResult, error) {
				return nil, errs.NewUserNotFoundError(userID)
			},
		}
		router := newUserRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/ghost/balance", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		envelope := decodeErrorResponse(t, w.Body)
		assert.Equal(t, errs.CodeUserNotFound, envelope.Code)
		assert.Equal(t, errs.ReasonUserNotFound, envelope.Reason)
	})

	t.Run("Store failure returns 500 with a generic message", func(t *testing.T) {
		service := &stubBalanceService{
			getBalance: func(ctx context.Context, userID string) (*usecase.BalanceResult, error) {
				return nil, errs.ErrDatabaseConnection
			},
		}
		router := newUserRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/alice/balance", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		envelope := decodeErrorResponse(t, w.Body)
		assert.Equal(t, errs.CodeInternalServer, envelope.Code)
		assert.Equal(t, errs.ReasonInternal, envelope.Reason)
		assert.Equal(t, "Internal server error", envelope.Message)
	})
}
