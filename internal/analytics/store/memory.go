package store

import (
	"context"
	"sync"

	"github.com/mkravets/shortpool/internal/analytics"
)

// Memory is an in-memory event store for tests.
type Memory struct {
	mu     sync.RWMutex
	events []analytics.Event
}

// NewMemory creates a new in-memory event store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveEvent(_ context.Context, event *analytics.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, *event)

	return nil
}

func (m *Memory) Stats(_ context.Context, shortID string) (*analytics.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &analytics.Stats{ShortID: shortID}

	for _, event := range m.events {
		if event.Data.ShortID != shortID || event.Type != analytics.TypeRedirect {
			continue
		}

		stats.RedirectCount++

		if event.Data.CacheHit == nil {
			continue
		}

		if *event.Data.CacheHit {
			stats.CacheHits++
		} else {
			stats.CacheMisses++
		}
	}

	return stats, nil
}

// Events returns a copy of everything stored. Test helper.
func (m *Memory) Events() []analytics.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]analytics.Event, len(m.events))
	copy(out, m.events)

	return out
}

// Compile-time check.
var _ analytics.Store = (*Memory)(nil)
