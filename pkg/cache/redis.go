package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. Network failures are retried with
// backoff before they surface as ErrUnavailable.
type RedisCache struct {
	client   redis.UniversalClient
	attempts int
	delay    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client, attempts: 3, delay: 100 * time.Millisecond}
}

// DialRedis connects to addr and checks the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, addr, err)
	}
	return NewRedisCache(client), nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := c.retry(ctx, func() error {
		v, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return classify(err)
		}
		data, hit = v, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set stores a value in the cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	err := RetryWithBackoff(ctx, c.attempts, c.delay, fn)
	if IsRetryable(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// classify marks network errors as retryable.
func classify(err error) error {
	var ne net.Error
	if errors.As(err, &ne) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
