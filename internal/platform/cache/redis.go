package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

// Cache errors.
var (
	// ErrKeyExists is returned by SetIdempotencyKey when the key is already held.
	ErrKeyExists = errors.New("cache key already exists")

	// ErrCacheMiss is returned by Get when the key does not exist.
	ErrCacheMiss = errors.New("cache miss")
)

// connectTimeout bounds the startup ping.
const connectTimeout = 5 * time.Second

// idempotencyPrefix namespaces idempotency keys in the shared keyspace.
const idempotencyPrefix = "idempotency:"

// Idempotency key states.
const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

// RedisCache is a thin wrapper over a go-redis client.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache connects to the Redis server described by cfg and verifies the
// connection with a ping. The caller owns the returned cache and must Close it.
func NewRedisCache(cfg config.CacheConfig, logger *slog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return connect(client, logger)
}

// NewRedisCacheFromURL connects using a redis:// URL.
func NewRedisCacheFromURL(url string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	return connect(redis.NewClient(opt), logger)
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client *redis.Client, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: client,
		logger: logger.With(slog.String("component", "redis_cache")),
	}
}

func connect(client *redis.Client, logger *slog.Logger) (*RedisCache, error) {
	c := NewRedisCacheFromClient(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.logger.Info("connected to redis", slog.String("addr", client.Options().Addr))
	return c, nil
}

// Ping verifies that the Redis server is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// SetIdempotencyKey claims key for ttl. Returns ErrKeyExists when another
// request already holds it.
func (c *RedisCache) SetIdempotencyKey(ctx context.Context, key string, ttl time.Duration) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	ok, err := c.client.SetNX(ctx, idempotencyPrefix+key, IdempotencyProcessing, ttl).Result()
	if err != nil {
		log.Error("failed to claim idempotency key", slog.String("error", err.Error()))
		return fmt.Errorf("failed to set idempotency key: %w", err)
	}
	if !ok {
		log.Warn("duplicate idempotency key", slog.String("key", key))
		return ErrKeyExists
	}

	log.Debug("idempotency key claimed", slog.String("key", key), slog.Duration("ttl", ttl))
	return nil
}

// ReleaseIdempotencyKey frees a key claimed with SetIdempotencyKey.
func (c *RedisCache) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return c.DeleteKey(ctx, idempotencyPrefix+key)
}

// CompleteIdempotencyKey marks a claimed key as finished for ttl.
func (c *RedisCache) CompleteIdempotencyKey(ctx context.Context, key string, ttl time.Duration) error {
	return c.Set(ctx, idempotencyPrefix+key, IdempotencyCompleted, ttl)
}

// IdempotencyState returns the state stored under key, or ErrCacheMiss.
func (c *RedisCache) IdempotencyState(ctx context.Context, key string) (string, error) {
	return c.Get(ctx, idempotencyPrefix+key)
}

// Get returns the value stored under key, or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key. A zero ttl means the key does not expire.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// DeleteKey removes key. Deleting a missing key is not an error.
func (c *RedisCache) DeleteKey(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
