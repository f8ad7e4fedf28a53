package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore implements Store on top of a single Redis instance.
// Locks are plain SET NX keys with a TTL, which matches the advisory,
// self-expiring semantics the licensing engine expects.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to the Redis instance described by url
// (e.g. "redis://localhost:6379/0").
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// NewRedisStoreFromClient wraps an existing client, mainly for tests and for
// applications that already manage a Redis connection.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies connectivity. Called at startup so misconfiguration surfaces
// early rather than as degraded license lookups.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) Result[[]byte] {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result[[]byte]{Ok: true}
	}
	if err != nil {
		return failure[[]byte](fmt.Errorf("redis get %s: %w", key, err))
	}
	return Result[[]byte]{Ok: true, Found: true, Data: data}
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) Result[bool] {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return failure[bool](fmt.Errorf("redis exists %s: %w", key, err))
	}
	return Result[bool]{Ok: true, Found: n > 0, Data: n > 0}
}

func (s *RedisStore) TryLock(ctx context.Context, key string, ttl time.Duration) Result[bool] {
	acquired, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return failure[bool](fmt.Errorf("redis setnx %s: %w", key, err))
	}
	return Result[bool]{Ok: true, Found: acquired, Data: acquired}
}

func (s *RedisStore) Unlock(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Lock release failed; TTL expiry will reclaim it")
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
