package shortener

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// Service composes the allocator, record store, cache and publisher into
// the create / resolve / deactivate operations. It holds no cross-request
// state; all shared state lives in the backing stores.
type Service struct {
	allocator Allocator
	records   RecordStore
	cache     Cache
	events    EventPublisher
	baseURL   string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new shortener service.
func NewService(
	allocator Allocator,
	records RecordStore,
	cache Cache,
	events EventPublisher,
	baseURL string,
	logger *zap.Logger,
) *Service {
	return &Service{
		allocator: allocator,
		records:   records,
		cache:     cache,
		events:    events,
		baseURL:   baseURL,
		logger:    logger,
		now:       time.Now,
	}
}

// Create reserves a token (or the given alias), persists the mapping,
// primes the cache and emits a create event. The returned value is the
// composed short URL.
//
// The expiry is validated before anything is reserved, so a rejected
// request never consumes a pool entry. If the durable write fails after
// the reservation succeeded, the token stays reserved with no mapping;
// the pool is treated as a consumable and is re-provisioned out of band.
func (s *Service) Create(ctx context.Context, longURL, alias string, expiresAt *time.Time) (string, error) {
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return "", ErrInvalidExpiry
	}

	token, err := s.allocator.Reserve(ctx, alias)
	if err != nil {
		return "", err
	}

	shortURL := &ShortURL{
		Token:     token,
		LongURL:   longURL,
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
	}

	if err := s.records.Create(ctx, shortURL); err != nil {
		return "", fmt.Errorf("failed to persist short url: %w", err)
	}

	// Cache priming is best effort: the record store is the source of
	// truth and the next resolve re-primes on miss.
	if err := s.cache.Set(ctx, token, longURL, s.cacheTTL(expiresAt)); err != nil {
		s.logger.Warn("failed to prime cache",
			zap.String("token", token),
			zap.Error(err),
		)
	}

	s.events.Created(token, longURL)

	return s.baseURL + "/" + token, nil
}

// Resolve returns the long URL for a token, reading the cache first and
// falling back to the record store on miss. A fall-through re-primes the
// cache. Returns ErrNotFound for unknown, deleted and expired tokens alike.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	longURL, err := s.cache.Get(ctx, token)
	if err == nil {
		s.events.Redirected(token, longURL, true)

		return longURL, nil
	}

	shortURL, err := s.records.FindActive(ctx, token)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, token, shortURL.LongURL, s.cacheTTL(shortURL.ExpiresAt)); err != nil {
		s.logger.Warn("failed to re-prime cache",
			zap.String("token", token),
			zap.Error(err),
		)
	}

	s.events.Redirected(token, shortURL.LongURL, false)

	return shortURL.LongURL, nil
}

// Deactivate soft-deletes the record and evicts the cache entry so the
// token stops resolving within one round trip rather than a full TTL.
func (s *Service) Deactivate(ctx context.Context, token string) error {
	if err := s.records.SoftDelete(ctx, token); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, token); err != nil {
		s.logger.Warn("failed to evict cache entry",
			zap.String("token", token),
			zap.Error(err),
		)
	}

	return nil
}

// cacheTTL derives the cache entry lifetime from the record expiry:
// the remaining time ceiling-rounded to whole seconds, never below one
// second, so the cache entry cannot outlive the record by more than the
// rounding. Zero (no expiry) when the record never expires.
func (s *Service) cacheTTL(expiresAt *time.Time) time.Duration {
	if expiresAt == nil {
		return 0
	}

	remaining := expiresAt.Sub(s.now())

	secs := math.Ceil(remaining.Seconds())
	if secs < 1 {
		secs = 1
	}

	return time.Duration(secs) * time.Second
}
