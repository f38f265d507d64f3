package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/transfer-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Successful settlement", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		cache := newFakeCache()
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 500, start)
		service := NewService(store, cache, clock, logger.NewNoopLogger(), DefaultConfig())

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)

		clock.Advance(5 * time.Second)
		require.NoError(t, service.Apply(ctx, transfer.ID))

		// Money moved, total conserved
		aliceCents, aliceVersion := store.balanceOf("alice")
		bobCents, bobVersion := store.balanceOf("bob")
		assert.Equal(t, int64(7500), aliceCents)
		assert.Equal(t, int64(3000), bobCents)
		assert.Equal(t, int64(10500), aliceCents+bobCents)
		assert.Equal(t, int64(1), aliceVersion)
		assert.Equal(t, int64(1), bobVersion)

		// Status flipped with the completion timestamp
		settled := store.transferByID(transfer.ID)
		assert.Equal(t, entity.TransferCompleted, settled.Status)
		require.NotNil(t, settled.CompletedAt)
		assert.Equal(t, clock.Now(), *settled.CompletedAt)

		// Exactly two ledger lines, one per leg
		lines := store.changesFor(transfer.ID)
		require.Len(t, lines, 2)
		byType := map[entity.BalanceChangeType]*entity.BalanceChange{}
		for _, line := range lines {
			byType[line.Type] = line
		}
		debit := byType[entity.TransferOut]
		credit := byType[entity.TransferIn]
		require.NotNil(t, debit)
		require.NotNil(t, credit)
		assert.Equal(t, "alice", debit.UserID)
		assert.Equal(t, int64(-2500), debit.DeltaInCents)
		assert.Equal(t, int64(7500), debit.ResultingBalance)
		assert.Equal(t, "bob", credit.UserID)
		assert.Equal(t, int64(2500), credit.DeltaInCents)
		assert.Equal(t, int64(3000), credit.ResultingBalance)

		// Both cache entries dropped after commit
		assert.ElementsMatch(t, []string{"alice", "bob"}, cache.invalidated)
	})

	t.Run("Insufficient balance at settlement fails the transfer", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := newTestService(store, clock)

		first, err := service.Submit(ctx, "alice", "bob", "60.00")
		require.NoError(t, err)
		second, err := service.Submit(ctx, "alice", "bob", "60.00")
		require.NoError(t, err)

		require.NoError(t, service.Apply(ctx, first.ID))
		require.NoError(t, service.Apply(ctx, second.ID))

		// First settled, second failed with a recorded reason
		assert.Equal(t, entity.TransferCompleted, store.transferByID(first.ID).Status)
		failed := store.transferByID(second.ID)
		assert.Equal(t, entity.TransferFailed, failed.Status)
		assert.NotEmpty(t, failed.FailureReason)

		// The failed transfer produced no ledger lines and moved no money
		assert.Empty(t, store.changesFor(second.ID))
		aliceCents, _ := store.balanceOf("alice")
		bobCents, _ := store.balanceOf("bob")
		assert.Equal(t, int64(4000), aliceCents)
		assert.Equal(t, int64(6000), bobCents)
	})

	t.Run("Already settled transfer is a no-op", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := newTestService(store, clock)

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)

		require.NoError(t, service.Apply(ctx, transfer.ID))
		require.NoError(t, service.Apply(ctx, transfer.ID))

		// Applied exactly once
		aliceCents, aliceVersion := store.balanceOf("alice")
		assert.Equal(t, int64(7500), aliceCents)
		assert.Equal(t, int64(1), aliceVersion)
		assert.Len(t, store.changesFor(transfer.ID), 2)
	})

	t.Run("Recorded debit leg is not applied twice", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		cache := newFakeCache()
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := NewService(store, cache, clock, logger.NewNoopLogger(), DefaultConfig())

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)

		// An earlier attempt already moved the money and recorded both legs,
		// but its status flip never landed
		store.addAccount("alice", 7500, start)
		store.addAccount("bob", 2500, start)
		changeRepo := store.GetBalanceChangeRepository(ctx)
		require.NoError(t, changeRepo.Create(ctx, entity.NewDebitChange(transfer.ID, "alice", 2500, 7500, 1, clock)))
		require.NoError(t, changeRepo.Create(ctx, entity.NewCreditChange(transfer.ID, "bob", 2500, 2500, 1, clock)))

		require.NoError(t, service.Apply(ctx, transfer.ID))

		// Completed without touching the balances again
		aliceCents, _ := store.balanceOf("alice")
		bobCents, _ := store.balanceOf("bob")
		assert.Equal(t, int64(7500), aliceCents)
		assert.Equal(t, int64(2500), bobCents)
		assert.Equal(t, entity.TransferCompleted, store.transferByID(transfer.ID).Status)
		assert.Len(t, store.changesFor(transfer.ID), 2)
		assert.ElementsMatch(t, []string{"alice", "bob"}, cache.invalidated)
	})

	t.Run("Cancelled transfer is not settled", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := newTestService(store, clock)

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)
		_, err = service.Cancel(ctx, transfer.ID)
		require.NoError(t, err)

		require.NoError(t, service.Apply(ctx, transfer.ID))

		aliceCents, _ := store.balanceOf("alice")
		assert.Equal(t, int64(10000), aliceCents)
		assert.Equal(t, entity.TransferCancelled, store.transferByID(transfer.ID).Status)
		assert.Empty(t, store.changesFor(transfer.ID))
	})

	t.Run("Cancellation landing mid-settlement wins", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := newTestService(store, clock)

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)

		// The cancel commits between the balance mutations and the status
		// transition; the transition guard must lose and everything rolls back
		store.beforeTransition = func() {
			store.forceCancel(transfer.ID, clock.Now())
		}

		require.NoError(t, service.Apply(ctx, transfer.ID))

		aliceCents, aliceVersion := store.balanceOf("alice")
		bobCents, bobVersion := store.balanceOf("bob")
		assert.Equal(t, int64(10000), aliceCents)
		assert.Equal(t, int64(0), bobCents)
		assert.Equal(t, int64(0), aliceVersion)
		assert.Equal(t, int64(0), bobVersion)
		assert.Equal(t, entity.TransferCancelled, store.transferByID(transfer.ID).Status)
		assert.Empty(t, store.changesFor(transfer.ID))
	})

	t.Run("Version conflicts are retried", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := newTestService(store, clock)

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)

		// Two conflicts fit inside the default retry budget of three
		store.conflictsRemaining = 2
		require.NoError(t, service.Apply(ctx, transfer.ID))
		assert.Equal(t, entity.TransferCompleted, store.transferByID(transfer.ID).Status)
	})

	t.Run("Exhausted retry budget leaves the transfer pending", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 10000, start)
		store.addAccount("bob", 0, start)
		service := NewService(store, newFakeCache(), clock, logger.NewNoopLogger(), Config{
			CancelWindow:    10 * time.Minute,
			MaxApplyRetries: 2,
		})

		transfer, err := service.Submit(ctx, "alice", "bob", "25.00")
		require.NoError(t, err)

		store.conflictsRemaining = 5
		err = service.Apply(ctx, transfer.ID)
		assert.Error(t, err)

		// Untouched and still PENDING for the next sweep
		aliceCents, _ := store.balanceOf("alice")
		assert.Equal(t, int64(10000), aliceCents)
		assert.Equal(t, entity.TransferPending, store.transferByID(transfer.ID).Status)
		assert.Empty(t, store.changesFor(transfer.ID))
	})

	t.Run("Unknown transfer", func(t *testing.T) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		service := newTestService(store, clock)

		assert.Error(t, service.Apply(ctx, 999))
	})
}
