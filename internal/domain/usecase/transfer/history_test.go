package transfer

import (
	"context"
	"fmt"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/transfer-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	// 25 transfers involving alice, one minute apart, alternating direction
	seed := func() (*memStore, *Service) {
		store := newMemStore()
		clock := &fixedClock{now: start}
		store.addAccount("alice", 1000000, start)
		store.addAccount("bob", 1000000, start)
		store.addAccount("carol", 1000000, start)
		service := newTestService(store, clock)

		for i := 0; i < 25; i++ {
			var err error
			if i%2 == 0 {
				_, err = service.Submit(ctx, "alice", "bob", "1.00")
			} else {
				_, err = service.Submit(ctx, "bob", "alice", "1.00")
			}
			require.NoError(t, err)
			clock.Advance(time.Minute)
		}
		// One transfer alice is not part of
		_, err := service.Submit(ctx, "bob", "carol", "1.00")
		require.NoError(t, err)

		return store, service
	}

	t.Run("First page, newest first", func(t *testing.T) {
		_, service := seed()

		page, err := service.History(ctx, "alice", 0, 10)
		require.NoError(t, err)
		assert.Len(t, page.Transfers, 10)
		assert.Equal(t, int64(25), page.Meta.TotalElements)
		assert.Equal(t, 3, page.Meta.TotalPages)
		assert.Equal(t, 0, page.Meta.CurrentPage)
		assert.Equal(t, 10, page.Meta.PageSize)
		assert.True(t, page.Meta.HasNext)
		assert.False(t, page.Meta.HasPrevious)

		// Descending creation order
		for i := 1; i < len(page.Transfers); i++ {
			assert.False(t, page.Transfers[i].CreatedAt.After(page.Transfers[i-1].CreatedAt))
		}
	})

	t.Run("Last page is short", func(t *testing.T) {
		_, service := seed()

		page, err := service.History(ctx, "alice", 2, 10)
		require.NoError(t, err)
		assert.Len(t, page.Transfers, 5)
		assert.False(t, page.Meta.HasNext)
		assert.True(t, page.Meta.HasPrevious)
	})

	t.Run("Page past the end is empty", func(t *testing.T) {
		_, service := seed()

		page, err := service.History(ctx, "alice", 10, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Transfers)
		assert.Equal(t, int64(25), page.Meta.TotalElements)
		assert.False(t, page.Meta.HasNext)
	})

	t.Run("Sent and received both included", func(t *testing.T) {
		_, service := seed()

		sent, received := 0, 0
		for p := 0; p < 3; p++ {
			page, err := service.History(ctx, "alice", p, 10)
			require.NoError(t, err)
			for _, transfer := range page.Transfers {
				switch "alice" {
				case transfer.FromUserID:
					sent++
				case transfer.ToUserID:
					received++
				}
			}
		}
		assert.Equal(t, 13, sent)
		assert.Equal(t, 12, received)
	})

	t.Run("User with no transfers gets an empty page", func(t *testing.T) {
		_, service := seed()

		page, err := service.History(ctx, "carol", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Transfers)
		assert.Equal(t, int64(1), page.Meta.TotalElements)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, service := seed()

		page, err := service.History(ctx, "ghost", 0, 10)
		assert.Nil(t, page)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("Invalid pagination parameters", func(t *testing.T) {
		_, service := seed()

		testCases := []struct {
			page int
			size int
		}{
			{-1, 10},
			{0, 0},
			{0, -5},
			{0, MaxPageSize + 1},
		}
		for _, tc := range testCases {
			t.Run(fmt.Sprintf("page=%d size=%d", tc.page, tc.size), func(t *testing.T) {
				page, err := service.History(ctx, "alice", tc.page, tc.size)
				assert.Nil(t, page)
				assert.ErrorIs(t, err, errs.ErrInvalidPageRequest)
			})
		}
	})

	t.Run("Maximum page size is accepted", func(t *testing.T) {
		_, service := seed()

		page, err := service.History(ctx, "alice", 0, MaxPageSize)
		require.NoError(t, err)
		assert.Len(t, page.Transfers, 25)
		assert.Equal(t, 1, page.Meta.TotalPages)
		assert.False(t, page.Meta.HasNext)
	})
}
