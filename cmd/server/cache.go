package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/cache"
)

// setupAppCache connects to Redis, preferring cache.url over the discrete
// host settings. An unreachable server is a startup error.
func setupAppCache(cfg config.CacheConfig, logger *slog.Logger) (*cache.RedisCache, error) {
	var (
		c   *cache.RedisCache
		err error
	)
	if cfg.URL != "" {
		c, err = cache.NewRedisCacheFromURL(cfg.URL, logger)
	} else {
		c, err = cache.NewRedisCache(cfg, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set up cache: %w", err)
	}
	return c, nil
}
