package idempotency

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "idempotent-key:"

// Store reserves request keys so a retried request is not applied twice.
type Store interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Reserve returns false when the key has already been used within the TTL.
func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, keyPrefix+key, "exists", s.ttl).Result()
}

// Release frees a key whose request failed, so a retry can go through.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key).Err()
}
