package balance

import (
	"context"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	cacheport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/usecase"
)

// Service implements account provisioning and cache-aside balance reads
type Service struct {
	balanceRepo  persistence.UserBalanceRepository
	cache        cacheport.BalanceCache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a balance service
func NewService(
	balanceRepo persistence.UserBalanceRepository,
	cache cacheport.BalanceCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		balanceRepo:  balanceRepo,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CreateUser provisions a new user with the given opening balance
func (s *Service) CreateUser(ctx context.Context, userID, initialBalance string) (*usecase.BalanceResult, error) {
	userBalance, err := entity.NewUserBalance(userID, initialBalance, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.balanceRepo.Create(ctx, userBalance); err != nil {
		return nil, err
	}

	s.logger.Info("user created", map[string]any{
		"user_id":         userID,
		"initial_balance": userBalance.FormattedBalance(),
	})

	return &usecase.BalanceResult{
		UserID:  userBalance.UserID,
		Balance: userBalance.FormattedBalance(),
		Version: userBalance.Version,
	}, nil
}

// GetBalance returns the user's current balance. Cache hits skip the store
// entirely; misses read the store and warm the cache on the way out.
func (s *Service) GetBalance(ctx context.Context, userID string) (*usecase.BalanceResult, error) {
	if err := entity.ValidateUserID(userID); err != nil {
		return nil, err
	}

	if snapshot, found := s.cache.Get(ctx, userID); found {
		return &usecase.BalanceResult{
			UserID:    snapshot.UserID,
			Balance:   entity.FormatAmount(snapshot.BalanceInCents),
			Version:   snapshot.Version,
			FromCache: true,
		}, nil
	}

	userBalance, err := s.balanceRepo.GetByID(ctx, userID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Error("balance lookup failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	s.cache.Set(ctx, &cacheport.BalanceSnapshot{
		UserID:         userBalance.UserID,
		BalanceInCents: userBalance.Balance(),
		Version:        userBalance.Version,
	})

	return &usecase.BalanceResult{
		UserID:  userBalance.UserID,
		Balance: userBalance.FormattedBalance(),
		Version: userBalance.Version,
	}, nil
}
