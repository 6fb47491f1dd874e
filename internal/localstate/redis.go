package localstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "writook:state:"

// RedisStore keeps state in Redis so a profile can follow the account across
// shared terminals. No TTL: counters and tokens live until deleted.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read state key: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write state key: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete state key: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
