package sequence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sequence:"

// RedisStore keeps counters in Redis. INCR is atomic and creates missing keys at
// zero; durability follows the server's persistence settings.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// Increment implements Store.
func (s *RedisStore) Increment(ctx context.Context, name string) (int64, error) {
	if s == nil || s.client == nil {
		return 0, errors.New("redis client not configured")
	}
	return s.client.Incr(ctx, redisKeyPrefix+name).Result()
}
