package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nontonin-api/config"
)

// NewClient connects to Redis and pings it. It returns nil, nil when no
// address is configured; callers treat a nil client as "feature off".
func NewClient(ctx context.Context) (*redis.Client, error) {
	if config.REDIS_ADDR == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.REDIS_ADDR,
		Password: config.REDIS_PASSWORD,
		DB:       config.REDIS_DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", config.REDIS_ADDR, err)
	}
	return rdb, nil
}
