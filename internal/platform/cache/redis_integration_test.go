//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisTestcontainer(t *testing.T) *RedisCache {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithOccurrence(1).WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Failed to start Redis testcontainer: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := NewRedisCacheFromURL(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestRedisCache_Integration(t *testing.T) {
	c := setupRedisTestcontainer(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	t.Run("idempotency keys are claimed once", func(t *testing.T) {
		require.NoError(t, c.SetIdempotencyKey(ctx, "req-1", time.Minute))
		assert.ErrorIs(t, c.SetIdempotencyKey(ctx, "req-1", time.Minute), ErrKeyExists)

		require.NoError(t, c.ReleaseIdempotencyKey(ctx, "req-1"))
		assert.NoError(t, c.SetIdempotencyKey(ctx, "req-1", time.Minute))
	})

	t.Run("completed keys stay held", func(t *testing.T) {
		require.NoError(t, c.SetIdempotencyKey(ctx, "req-2", time.Minute))
		state, err := c.IdempotencyState(ctx, "req-2")
		require.NoError(t, err)
		assert.Equal(t, IdempotencyProcessing, state)

		require.NoError(t, c.CompleteIdempotencyKey(ctx, "req-2", time.Minute))
		state, err = c.IdempotencyState(ctx, "req-2")
		require.NoError(t, err)
		assert.Equal(t, IdempotencyCompleted, state)
		assert.ErrorIs(t, c.SetIdempotencyKey(ctx, "req-2", time.Minute), ErrKeyExists)
	})

	t.Run("claims expire", func(t *testing.T) {
		require.NoError(t, c.SetIdempotencyKey(ctx, "short", 200*time.Millisecond))
		assert.Eventually(t, func() bool {
			return c.SetIdempotencyKey(ctx, "short", time.Minute) == nil
		}, 3*time.Second, 100*time.Millisecond)
	})

	t.Run("get set delete", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrCacheMiss)

		require.NoError(t, c.Set(ctx, "greeting", "hello", 0))
		value, err := c.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, "hello", value)

		require.NoError(t, c.DeleteKey(ctx, "greeting"))
		_, err = c.Get(ctx, "greeting")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
