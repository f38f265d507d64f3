package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	cacheport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/metrics"
)

// DefaultBalanceTTL is used when no TTL is configured
const DefaultBalanceTTL = 300 * time.Second

// RedisBalanceCache implements the balance cache on Redis. Every backend
// failure is swallowed after logging: Get degrades to a miss, Set and
// Invalidate to no-ops, so a Redis outage costs latency, never correctness.
type RedisBalanceCache struct {
	client    *redis.Client
	logger    coreport.Logger
	keyPrefix string
	ttl       time.Duration
}

// NewRedisBalanceCache creates a balance cache backed by Redis
func NewRedisBalanceCache(client *redis.Client, logger coreport.Logger, keyPrefix string, ttl time.Duration) *RedisBalanceCache {
	if keyPrefix == "" {
		keyPrefix = "balance"
	}
	if ttl <= 0 {
		ttl = DefaultBalanceTTL
	}
	return &RedisBalanceCache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisBalanceCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, userID)
}

// Get returns the cached snapshot for a user, or found=false on a miss.
// Backend errors and corrupt payloads both count as misses.
func (c *RedisBalanceCache) Get(ctx context.Context, userID string) (*cacheport.BalanceSnapshot, bool) {
	payload, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
			return nil, false
		}
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("Balance cache read failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, false
	}

	var snapshot cacheport.BalanceSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("Balance cache entry corrupt, dropping it", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.client.Del(ctx, c.key(userID))
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &snapshot, true
}

// Set warms the cache with a fresh snapshot under the configured TTL
func (c *RedisBalanceCache) Set(ctx context.Context, snapshot *cacheport.BalanceSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("Balance snapshot marshal failed", map[string]any{
			"user_id": snapshot.UserID,
			"error":   err.Error(),
		})
		return
	}

	if err := c.client.Set(ctx, c.key(snapshot.UserID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Balance cache write failed", map[string]any{
			"user_id": snapshot.UserID,
			"error":   err.Error(),
		})
	}
}

// Invalidate drops the entries for the given users
func (c *RedisBalanceCache) Invalidate(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		keys = append(keys, c.key(userID))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Balance cache invalidation failed", map[string]any{
			"user_ids": userIDs,
			"error":    err.Error(),
		})
	}
}
