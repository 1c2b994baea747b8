package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis, sharing one cache across server
// instances. Expiry is delegated to Redis TTLs, and transient backend
// failures are retried with backoff before surfacing.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis at addr ("host:port") and verifies the
// connection with a ping. The ping is not retried: an unreachable
// backend at startup should fail fast so the caller can fall back.
func NewRedisCache(ctx context.Context, addr, password string, db int) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, Retryable(err)
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a value from Redis, retrying transient failures.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var found bool
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			data, found = nil, false
			return nil
		}
		if err != nil {
			return Retryable(err)
		}
		data, found = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

// Set stores a value in Redis. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
