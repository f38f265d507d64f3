package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/transfer-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/config"
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
// The caller decides whether a failed ping is fatal; the cache layer itself
// tolerates a dead client.
func NewRedisClient(conf *config.RedisConfig, timeProvider coreport.TimeProvider, logger coreport.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password:    conf.Password,
		DB:          conf.DB,
		DialTimeout: conf.DialTimeout,
	})

	ctx, cancel := timeProvider.WithTimeout(context.Background(), coreport.Duration(conf.DialTimeout))
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed", map[string]any{
			"addr":  fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			"error": err.Error(),
		})
		return client, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Connected to Redis", map[string]any{
		"addr": fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		"db":   conf.DB,
	})
	return client, nil
}
