package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hit increments a fixed-window counter and returns the count inside the
// current window.
func Hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
