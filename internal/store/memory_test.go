package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkravets/shortpool/internal/shortener"
	"github.com/mkravets/shortpool/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecordStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find active", func(t *testing.T) {
		s := store.NewMemoryRecordStore()

		err := s.Create(ctx, &shortener.ShortURL{
			Token:     "abc1234",
			LongURL:   "https://example.com",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		got, err := s.FindActive(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.LongURL)
	})

	t.Run("create conflict on duplicate token", func(t *testing.T) {
		s := store.NewMemoryRecordStore()

		record := &shortener.ShortURL{Token: "abc1234", LongURL: "https://a.com"}
		require.NoError(t, s.Create(ctx, record))

		err := s.Create(ctx, &shortener.ShortURL{Token: "abc1234", LongURL: "https://b.com"})
		assert.ErrorIs(t, err, shortener.ErrConflict)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		s := store.NewMemoryRecordStore()

		_, err := s.FindActive(ctx, "missing")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("expired record is invisible even when not deleted", func(t *testing.T) {
		s := store.NewMemoryRecordStore()

		expiry := time.Now().Add(time.Hour)
		s.Put(&shortener.ShortURL{
			Token:     "willexpire",
			LongURL:   "https://example.com",
			ExpiresAt: &expiry,
		})

		_, err := s.FindActive(ctx, "willexpire")
		require.NoError(t, err)

		// Move the clock past the expiry; no state write happened.
		s.Now = func() time.Time { return expiry.Add(time.Second) }

		_, err = s.FindActive(ctx, "willexpire")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("soft delete hides record and repeats as not found", func(t *testing.T) {
		s := store.NewMemoryRecordStore()

		require.NoError(t, s.Create(ctx, &shortener.ShortURL{Token: "abc1234", LongURL: "https://a.com"}))

		require.NoError(t, s.SoftDelete(ctx, "abc1234"))

		_, err := s.FindActive(ctx, "abc1234")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		err = s.SoftDelete(ctx, "abc1234")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("soft delete of expired record is not found", func(t *testing.T) {
		s := store.NewMemoryRecordStore()

		expiry := time.Now().Add(-time.Minute)
		s.Put(&shortener.ShortURL{Token: "gone", LongURL: "https://a.com", ExpiresAt: &expiry})

		err := s.SoftDelete(ctx, "gone")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := store.NewMemoryCache()

		require.NoError(t, c.Set(ctx, "abc1234", "https://example.com", 0))

		got, err := c.Get(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got)
	})

	t.Run("miss on unknown token", func(t *testing.T) {
		c := store.NewMemoryCache()

		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		c := store.NewMemoryCache()
		base := time.Now()
		c.Now = func() time.Time { return base }

		require.NoError(t, c.Set(ctx, "abc1234", "https://example.com", 10*time.Second))

		_, err := c.Get(ctx, "abc1234")
		require.NoError(t, err)

		c.Now = func() time.Time { return base.Add(11 * time.Second) }

		_, err = c.Get(ctx, "abc1234")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("delete evicts entry", func(t *testing.T) {
		c := store.NewMemoryCache()

		require.NoError(t, c.Set(ctx, "abc1234", "https://example.com", 0))
		require.NoError(t, c.Delete(ctx, "abc1234"))

		_, err := c.Get(ctx, "abc1234")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
