package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idem:"

// releaseScript deletes the lock only while it still holds our token, so a
// lock that expired and was taken by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IdempotencyLock is a SETNX based lock keyed by idempotency key.
type IdempotencyLock struct {
	rdb    *redis.Client
	tokens sync.Map
}

func NewIdempotencyLock(rdb *redis.Client) *IdempotencyLock {
	return &IdempotencyLock{rdb: rdb}
}

func (l *IdempotencyLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, idempotencyPrefix+key, token, ttl).Result()
	if err != nil || !ok {
		return ok, err
	}
	l.tokens.Store(key, token)
	return true, nil
}

// Release drops a lock taken by this instance. Releasing a key it does not
// hold is a no-op.
func (l *IdempotencyLock) Release(ctx context.Context, key string) error {
	token, ok := l.tokens.LoadAndDelete(key)
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, l.rdb, []string{idempotencyPrefix + key}, token).Err()
}
