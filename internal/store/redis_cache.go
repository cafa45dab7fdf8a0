package store

import (
	"context"
	"errors"
	"time"

	"github.com/mkravets/shortpool/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisCache is the Redis implementation of shortener.Cache. Entries are
// plain token -> URL strings; a zero ttl stores the entry without expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed resolution cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "url:",
	}
}

func (r *RedisCache) Get(ctx context.Context, token string) (string, error) {
	longURL, err := r.client.Get(ctx, r.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return longURL, nil
}

func (r *RedisCache) Set(ctx context.Context, token, longURL string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+token, longURL, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
