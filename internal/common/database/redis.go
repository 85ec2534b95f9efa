// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"bizhealth-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the cache used for profiles and location data.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a Redis client. Connections are opened lazily.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(redisOptions(cfg))}
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	minIdle := cfg.MinIdle
	if minIdle <= 0 || minIdle > poolSize {
		minIdle = poolSize / 2
	}

	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	}
}

// Ping checks that the cache answers.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
