package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmehdipour/insights/internal/config"
)

// NewRedisClient connects the rate limiter store. Callers check cfg.Enabled.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}
