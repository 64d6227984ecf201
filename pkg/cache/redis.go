package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	nterrors "github.com/matzehuels/nodetrees/pkg/errors"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0").
	URL string

	// ConnectTimeout bounds dialing and the initial PING.
	ConnectTimeout time.Duration

	// ReadTimeout and WriteTimeout bound individual commands.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Retry governs Get and Set on connection failures. Zero selects
	// DefaultBackoff.
	Retry Backoff
}

// DefaultRedisURL is used when RedisOptions.URL is empty.
const DefaultRedisURL = "redis://localhost:6379/0"

// RedisCache stores entries as plain Redis strings. Expiry is delegated to
// Redis key TTLs.
type RedisCache struct {
	client *redis.Client
	retry  Backoff
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	if opts.URL == "" {
		opts.URL = DefaultRedisURL
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if err := nterrors.ValidateRedisURL(opts.URL); err != nil {
		return nil, err
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nterrors.Wrap(nterrors.ErrCodeCache, fmt.Errorf("%w: %w", ErrNetwork, err), "connect to redis")
	}
	return &RedisCache{client: client, retry: opts.Retry.orDefault()}, nil
}

// Get retrieves a value. Transient failures are retried with backoff.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := c.retry.Do(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			return nil
		case err != nil:
			return transient(err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, hit, nil
}

// Set stores a value. A zero ttl keeps the key until it is deleted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.retry.Do(ctx, func() error {
		return transient(c.client.Set(ctx, key, data, ttl).Err())
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// transient marks connection-level failures as retryable. Redis replies
// such as WRONGTYPE are not retried.
func transient(err error) error {
	if err == nil {
		return nil
	}
	var reply redis.Error
	if errors.As(err, &reply) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
}

var _ Cache = (*RedisCache)(nil)
