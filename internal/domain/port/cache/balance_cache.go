package cache

import (
	"context"
)

// BalanceSnapshot is the cached view of one user's balance. Enough to
// rebuild a balance response without touching the store.
type BalanceSnapshot struct {
	UserID         string `json:"userId"`
	BalanceInCents int64  `json:"balanceInCents"`
	Version        int64  `json:"version"`
}

// BalanceCache is the cache-aside read accelerator for balance lookups.
// It is never authoritative: implementations absorb every backend error
// internally, reporting a miss on Get and doing nothing on Set/Invalidate,
// so a cache outage degrades reads to the store and nothing else.
type BalanceCache interface {
	// Get returns the cached snapshot for a user, or found=false on a miss
	Get(ctx context.Context, userID string) (snapshot *BalanceSnapshot, found bool)

	// Set warms the cache with a fresh snapshot under the configured TTL
	Set(ctx context.Context, snapshot *BalanceSnapshot)

	// Invalidate drops the entries for the given users. Called after a
	// transfer's effect is durable, never before.
	Invalidate(ctx context.Context, userIDs ...string)
}
