//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkravets/shortpool/internal/shortener"
	"github.com/mkravets/shortpool/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisCacheIntegration(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: getRedisAddr()})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	cache := store.NewRedisCache(client)

	t.Run("set get delete round trip", func(t *testing.T) {
		token := "it" + uuid.NewString()[:10]

		require.NoError(t, cache.Set(ctx, token, "https://example.com", 0))

		got, err := cache.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got)

		require.NoError(t, cache.Delete(ctx, token))

		_, err = cache.Get(ctx, token)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("ttl applied to entry", func(t *testing.T) {
		token := "it" + uuid.NewString()[:10]

		require.NoError(t, cache.Set(ctx, token, "https://example.com", 30*time.Second))
		defer cache.Delete(ctx, token)

		ttl := client.TTL(ctx, "url:"+token).Val()
		assert.Greater(t, ttl, 25*time.Second)
		assert.LessOrEqual(t, ttl, 30*time.Second)
	})

	t.Run("rate limit store counts within window", func(t *testing.T) {
		rl := store.NewRateLimitRedisStore(client)
		key := "it" + uuid.NewString()[:10]

		for i := int64(1); i <= 3; i++ {
			count, err := rl.Record(ctx, key, time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}
	})
}
