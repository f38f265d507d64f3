package transfer

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
)

// ProcessorConfig tunes the background settlement sweep
type ProcessorConfig struct {
	// Interval between sweeps
	Interval time.Duration

	// Delay a transfer must age past creation before it is picked up,
	// giving immediate cancellations a head start
	Delay time.Duration

	// BatchSize caps how many transfers one sweep settles
	BatchSize int
}

// DefaultProcessorConfig returns the production defaults
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Interval:  5 * time.Second,
		Delay:     3 * time.Second,
		BatchSize: 50,
	}
}

// Processor periodically sweeps PENDING transfers and settles them through
// the transfer service. One failed transfer never stops the sweep.
type Processor struct {
	service      *Service
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       ProcessorConfig

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewProcessor creates a settlement processor around the transfer service
func NewProcessor(service *Service, timeProvider coreport.TimeProvider, logger coreport.Logger, config ProcessorConfig) *Processor {
	defaults := DefaultProcessorConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Delay < 0 {
		config.Delay = defaults.Delay
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &Processor{
		service:      service,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine
func (p *Processor) Start(ctx context.Context) {
	go p.run(ctx)
	p.logger.Info("transfer processor started", map[string]any{
		"interval":   p.config.Interval.String(),
		"delay":      p.config.Delay.String(),
		"batch_size": p.config.BatchSize,
	})
}

// Stop shuts the loop down and waits for an in-flight sweep to finish
func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	<-p.doneCh
	p.logger.Info("transfer processor stopped", nil)
}

func (p *Processor) run(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep(ctx)
		}
	}
}

// Sweep settles one batch of due PENDING transfers and returns how many
// were picked up
func (p *Processor) Sweep(ctx context.Context) int {
	cutoff := p.timeProvider.Now().Add(-p.config.Delay)

	pending, err := p.service.uow.GetTransferRepository(ctx).ListPending(ctx, cutoff, p.config.BatchSize)
	if err != nil {
		p.logger.Error("pending transfer sweep failed", map[string]any{
			"error": err.Error(),
		})
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	for _, transfer := range pending {
		select {
		case <-p.stopCh:
			return len(pending)
		case <-ctx.Done():
			return len(pending)
		default:
		}

		if err := p.service.Apply(ctx, transfer.ID); err != nil {
			p.logger.Error("transfer settlement failed", map[string]any{
				"transfer_id": transfer.ID,
				"error":       err.Error(),
			})
		}
	}
	return len(pending)
}
