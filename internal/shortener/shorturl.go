package shortener

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a token resolves to no active record.
// Unknown, soft-deleted and expired tokens are deliberately
// indistinguishable to callers.
var ErrNotFound = errors.New("short url not found")

// ErrConflict is returned when a record for the token already exists.
var ErrConflict = errors.New("short url already exists")

// ErrInvalidAlias is returned for aliases outside the allowed pattern.
var ErrInvalidAlias = errors.New("invalid alias")

// ErrAliasTaken is returned when the requested alias is already reserved.
var ErrAliasTaken = errors.New("alias already taken")

// ErrPoolExhausted is returned when the key pool has no unreserved entries.
var ErrPoolExhausted = errors.New("key pool exhausted")

// ErrInvalidExpiry is returned when the requested expiry is not strictly
// in the future.
var ErrInvalidExpiry = errors.New("expiry must be in the future")

// ShortURL is the durable token -> URL mapping.
type ShortURL struct {
	Token     string
	LongURL   string
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means the record never expires
	Deleted   bool
}

// Active reports whether the record is visible to resolution at the given
// instant: not soft-deleted and not past its expiry.
func (s *ShortURL) Active(now time.Time) bool {
	if s.Deleted {
		return false
	}

	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// Allocator hands out unique tokens, either from the pre-provisioned pool
// (alias == "") or for a caller-supplied alias.
type Allocator interface {
	Reserve(ctx context.Context, alias string) (string, error)
}

// RecordStore is the durable system of record.
type RecordStore interface {
	Create(ctx context.Context, shortURL *ShortURL) error
	FindActive(ctx context.Context, token string) (*ShortURL, error)
	SoftDelete(ctx context.Context, token string) error
}

// Cache is the volatile fast lookup tier. A zero ttl means no expiry.
type Cache interface {
	Get(ctx context.Context, token string) (string, error)
	Set(ctx context.Context, token, longURL string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// EventPublisher broadcasts lifecycle events. Implementations must never
// block or fail the caller's critical path.
type EventPublisher interface {
	Created(token, longURL string)
	Redirected(token, longURL string, cacheHit bool)
}
