package config

import (
	"context"

	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/errors"
)

// OpenCache opens the configured cache backend. An empty file cache dir
// means [cache.DefaultDir].
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Backend)
}
