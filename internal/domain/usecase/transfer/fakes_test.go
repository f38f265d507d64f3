package transfer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	cacheport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/persistence"
)

// fixedClock pins Now() and lets tests advance it
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fixedClock) Since(t time.Time) coreport.Duration {
	return coreport.Duration(c.Now().Sub(t))
}

func (c *fixedClock) Sleep(d coreport.Duration) {}

func (c *fixedClock) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

// account is the stored state behind one user balance
type account struct {
	cents     int64
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// memStore is an in-memory stand-in for the persistence layer. It backs the
// unit of work and all three repositories, with a journal of undo operations
// so a rollback behaves like a real store transaction. Mutations made outside
// a transaction (for example a concurrent cancellation a test injects) are
// not journaled and survive the rollback, the way committed writes do.
type memStore struct {
	mu sync.Mutex

	accounts  map[string]*account
	transfers map[uint64]*entity.Transfer
	changes   []*entity.BalanceChange
	nextID    uint64

	inTx    bool
	journal []func()

	// conflictsRemaining forces that many CompareAndApply calls to fail with
	// a version conflict, advancing the stored version each time the way a
	// concurrent writer would
	conflictsRemaining int

	// beforeTransition runs once just before the next status transition,
	// with the store unlocked. Lets tests inject a concurrent cancellation.
	beforeTransition func()
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  make(map[string]*account),
		transfers: make(map[uint64]*entity.Transfer),
		nextID:    1,
	}
}

// addAccount seeds a user balance directly
func (s *memStore) addAccount(userID string, cents int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID] = &account{cents: cents, createdAt: at, updatedAt: at}
}

func (s *memStore) balanceOf(userID string) (cents, version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[userID]
	return acc.cents, acc.version
}

func (s *memStore) transferByID(id uint64) *entity.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *s.transfers[id]
	return &copied
}

// forceCancel flips a transfer to CANCELLED bypassing the journal, the way a
// concurrently committed cancellation would appear to an open transaction
func (s *memStore) forceCancel(id uint64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transfer := s.transfers[id]
	transfer.Status = entity.TransferCancelled
	transfer.UpdatedAt = at
	cancelledAt := at
	transfer.CancelledAt = &cancelledAt
}

func (s *memStore) changesFor(externalID uint64) []*entity.BalanceChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.BalanceChange
	for _, change := range s.changes {
		if change.ExternalID == externalID {
			out = append(out, change)
		}
	}
	return out
}

// --- UnitOfWork ---

func (s *memStore) Begin(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = true
	s.journal = nil
	return ctx, nil
}

func (s *memStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	s.journal = nil
	return nil
}

func (s *memStore) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.journal) - 1; i >= 0; i-- {
		s.journal[i]()
	}
	s.inTx = false
	s.journal = nil
	return nil
}

func (s *memStore) GetUserBalanceRepository(ctx context.Context) persistence.UserBalanceRepository {
	return &balanceView{s: s}
}

func (s *memStore) GetTransferRepository(ctx context.Context) persistence.TransferRepository {
	return &transferView{s: s}
}

func (s *memStore) GetBalanceChangeRepository(ctx context.Context) persistence.BalanceChangeRepository {
	return &changeView{s: s}
}

// balanceView implements persistence.UserBalanceRepository
type balanceView struct {
	s *memStore
}

func (v *balanceView) Create(ctx context.Context, balance *entity.UserBalance) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[balance.UserID]; exists {
		return errs.ErrDuplicateUser
	}
	s.accounts[balance.UserID] = &account{
		cents:     balance.Balance(),
		version:   balance.Version,
		createdAt: balance.CreatedAt,
		updatedAt: balance.UpdatedAt,
	}
	return nil
}

func (v *balanceView) GetByID(ctx context.Context, userID string) (*entity.UserBalance, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, exists := s.accounts[userID]
	if !exists {
		return nil, errs.NewUserNotFoundError(userID)
	}
	return entity.RestoreUserBalance(userID, acc.cents, acc.version, acc.createdAt, acc.updatedAt), nil
}

func (v *balanceView) CompareAndApply(ctx context.Context, userID string, expectedVersion, deltaCents int64) (*entity.UserBalance, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, exists := s.accounts[userID]
	if !exists {
		return nil, errs.NewUserNotFoundError(userID)
	}

	if s.conflictsRemaining > 0 {
		s.conflictsRemaining--
		acc.version++
		return nil, errs.ErrVersionConflict
	}

	if acc.version != expectedVersion {
		return nil, errs.ErrVersionConflict
	}
	if acc.cents+deltaCents < 0 {
		return nil, errs.NewInsufficientBalanceError(
			userID,
			entity.FormatAmount(-deltaCents),
			entity.FormatAmount(acc.cents),
		)
	}

	if s.inTx {
		prevCents, prevVersion := acc.cents, acc.version
		s.journal = append(s.journal, func() {
			acc.cents, acc.version = prevCents, prevVersion
		})
	}

	acc.cents += deltaCents
	acc.version++
	return entity.RestoreUserBalance(userID, acc.cents, acc.version, acc.createdAt, acc.updatedAt), nil
}

// transferView implements persistence.TransferRepository
type transferView struct {
	s *memStore
}

func (v *transferView) Create(ctx context.Context, transfer *entity.Transfer) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	transfer.ID = s.nextID
	s.nextID++
	copied := *transfer
	s.transfers[transfer.ID] = &copied
	return nil
}

func (v *transferView) GetByID(ctx context.Context, id uint64) (*entity.Transfer, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	transfer, exists := s.transfers[id]
	if !exists {
		return nil, errs.NewTransferNotFoundError(id)
	}
	copied := *transfer
	return &copied, nil
}

func (v *transferView) Transition(ctx context.Context, id uint64, fromStatuses []entity.TransferStatus, toStatus entity.TransferStatus, at time.Time, failureReason string) (*entity.Transfer, error) {
	s := v.s

	s.mu.Lock()
	hook := s.beforeTransition
	s.beforeTransition = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	transfer, exists := s.transfers[id]
	if !exists {
		return nil, errs.NewTransferNotFoundError(id)
	}

	allowed := false
	for _, from := range fromStatuses {
		if transfer.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errs.NewInvalidTransferStateError(id, string(transfer.Status))
	}

	if s.inTx {
		prev := *transfer
		s.journal = append(s.journal, func() {
			*s.transfers[id] = prev
		})
	}

	transfer.Status = toStatus
	transfer.UpdatedAt = at
	switch toStatus {
	case entity.TransferCompleted:
		completedAt := at
		transfer.CompletedAt = &completedAt
	case entity.TransferCancelled:
		cancelledAt := at
		transfer.CancelledAt = &cancelledAt
	case entity.TransferFailed:
		transfer.FailureReason = failureReason
	}

	copied := *transfer
	return &copied, nil
}

func (v *transferView) ListPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Transfer, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*entity.Transfer
	for _, transfer := range s.transfers {
		if transfer.Status == entity.TransferPending && !transfer.CreatedAt.After(cutoff) {
			copied := *transfer
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (v *transferView) ListByUser(ctx context.Context, userID string, page, size int) ([]*entity.Transfer, int64, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*entity.Transfer
	for _, transfer := range s.transfers {
		if transfer.FromUserID == userID || transfer.ToUserID == userID {
			copied := *transfer
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	start := page * size
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// changeView implements persistence.BalanceChangeRepository
type changeView struct {
	s *memStore
}

func (v *changeView) Create(ctx context.Context, change *entity.BalanceChange) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.changes {
		if existing.ExternalID == change.ExternalID && existing.Type == change.Type {
			return errs.ErrDuplicateBalanceChange
		}
	}

	change.ID = s.nextID
	s.nextID++
	s.changes = append(s.changes, change)

	if s.inTx {
		s.journal = append(s.journal, func() {
			s.changes = s.changes[:len(s.changes)-1]
		})
	}
	return nil
}

func (v *changeView) FindByExternalIDAndType(ctx context.Context, externalID uint64, changeType entity.BalanceChangeType) (*entity.BalanceChange, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, change := range s.changes {
		if change.ExternalID == externalID && change.Type == changeType {
			return change, nil
		}
	}
	return nil, nil
}

// fakeCache records invalidations
type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
	entries     map[string]*cacheport.BalanceSnapshot
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*cacheport.BalanceSnapshot)}
}

func (c *fakeCache) Get(ctx context.Context, userID string) (*cacheport.BalanceSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot, found := c.entries[userID]
	return snapshot, found
}

func (c *fakeCache) Set(ctx context.Context, snapshot *cacheport.BalanceSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[snapshot.UserID] = snapshot
}

func (c *fakeCache) Invalidate(ctx context.Context, userIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userIDs...)
	for _, userID := range userIDs {
		delete(c.entries, userID)
	}
}
