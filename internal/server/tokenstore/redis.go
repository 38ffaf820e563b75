package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:verify:jti:"

// RedisStore shares consumed token IDs between instances through Redis.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Consume(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	ok, err := s.rdb.SetNX(ctx, keyPrefix+id, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("tokenstore setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("tokenstore del: %w", err)
	}
	return nil
}
