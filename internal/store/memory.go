package store

import (
	"context"
	"sync"
	"time"

	"github.com/mkravets/shortpool/internal/shortener"
)

// MemoryRecordStore is an in-memory implementation of shortener.RecordStore
// for unit tests. The clock is injectable so expiry can be simulated.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]*shortener.ShortURL
	Now     func() time.Time
}

// NewMemoryRecordStore creates a new in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		records: make(map[string]*shortener.ShortURL),
		Now:     time.Now,
	}
}

func (m *MemoryRecordStore) Create(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[shortURL.Token]; exists {
		return shortener.ErrConflict
	}

	clone := *shortURL
	m.records[shortURL.Token] = &clone

	return nil
}

func (m *MemoryRecordStore) FindActive(_ context.Context, token string) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[token]
	if !ok || !record.Active(m.Now()) {
		return nil, shortener.ErrNotFound
	}

	clone := *record

	return &clone, nil
}

func (m *MemoryRecordStore) SoftDelete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[token]
	if !ok || !record.Active(m.Now()) {
		return shortener.ErrNotFound
	}

	record.Deleted = true

	return nil
}

// Put inserts a record directly, bypassing Create's conflict check. Test
// helper for seeding states Create would refuse (e.g. already expired).
func (m *MemoryRecordStore) Put(record *shortener.ShortURL) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.records[record.Token] = &clone
}

type cacheEntry struct {
	longURL   string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-memory implementation of shortener.Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	Now     func() time.Time
}

// NewMemoryCache creates a new in-memory resolution cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		Now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, token string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[token]
	if !ok {
		return "", shortener.ErrNotFound
	}

	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(m.Now()) {
		return "", shortener.ErrNotFound
	}

	return entry.longURL, nil
}

func (m *MemoryCache) Set(_ context.Context, token, longURL string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := cacheEntry{longURL: longURL}
	if ttl > 0 {
		entry.expiresAt = m.Now().Add(ttl)
	}

	m.entries[token] = entry

	return nil
}

func (m *MemoryCache) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, token)

	return nil
}

// TTL returns the remaining lifetime of an entry: 0 for no expiry,
// ErrNotFound when the entry is absent. Test helper.
func (m *MemoryCache) TTL(token string) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[token]
	if !ok {
		return 0, shortener.ErrNotFound
	}

	if entry.expiresAt.IsZero() {
		return 0, nil
	}

	return entry.expiresAt.Sub(m.Now()), nil
}

// Compile-time checks.
var (
	_ shortener.RecordStore = (*MemoryRecordStore)(nil)
	_ shortener.Cache       = (*MemoryCache)(nil)
)
