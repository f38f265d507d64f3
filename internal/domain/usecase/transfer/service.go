package transfer

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	cacheport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/persistence"
)

// Config carries the tunables of the transfer lifecycle
type Config struct {
	// CancelWindow is how long after creation a PENDING transfer stays
	// cancellable. The boundary is inclusive.
	CancelWindow time.Duration

	// MaxApplyRetries bounds version-conflict retries while settling one
	// transfer
	MaxApplyRetries int
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		CancelWindow:    10 * time.Minute,
		MaxApplyRetries: 3,
	}
}

// Service implements the transfer lifecycle on top of the unit of work.
// Submission and cancellation are synchronous; settlement runs through
// Apply, normally invoked by the background Processor.
type Service struct {
	uow          persistence.UnitOfWork
	cache        cacheport.BalanceCache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
}

// NewService creates a transfer service
func NewService(
	uow persistence.UnitOfWork,
	cache cacheport.BalanceCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *Service {
	if config.CancelWindow <= 0 {
		config.CancelWindow = DefaultConfig().CancelWindow
	}
	if config.MaxApplyRetries <= 0 {
		config.MaxApplyRetries = DefaultConfig().MaxApplyRetries
	}
	return &Service{
		uow:          uow,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
	}
}

// GetByID returns one transfer
func (s *Service) GetByID(ctx context.Context, transferID uint64) (*entity.Transfer, error) {
	return s.uow.GetTransferRepository(ctx).GetByID(ctx, transferID)
}
