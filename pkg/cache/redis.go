package cache

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/httputil"
)

// RedisConfig configures [NewRedisCache].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key so Clear only touches flametower entries.
	Prefix string
}

// RedisCache stores entries in Redis. Network failures are retried with
// backoff before they surface as [ErrUnavailable].
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "flametower:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	c := &RedisCache{client: client, prefix: cfg.Prefix}
	if err := c.do(ctx, func() error { return client.Ping(ctx).Err() }); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to redis at %s", cfg.Addr)
	}
	return c, nil
}

// Get retrieves a value. redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.do(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return err
	})
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeCache, err, "redis get")
	}
	return data, true, nil
}

// Set stores a value. Redis handles expiration.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.do(ctx, func() error {
		return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "redis set")
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.do(ctx, func() error { return c.client.Del(ctx, c.prefix+key).Err() }); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "redis del")
	}
	return nil
}

// Clear deletes every key under the prefix using SCAN.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := flush(); err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "redis clear")
			}
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "redis scan")
	}
	if err := flush(); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "redis clear")
	}
	return nil
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// do runs fn, retrying network errors.
func (c *RedisCache) do(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, retryAttempts, retryDelay, func() error {
		err := fn()
		var netErr net.Error
		if stderrors.As(err, &netErr) {
			return httputil.Retryable(stderrors.Join(ErrUnavailable, err))
		}
		return err
	})
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
