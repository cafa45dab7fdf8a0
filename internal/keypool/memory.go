package keypool

import (
	"context"
	"sync"

	"github.com/mkravets/shortpool/internal/shortener"
)

// MemoryAllocator is an in-memory allocator with the same contract as the
// Postgres one. Used in unit tests and local development.
type MemoryAllocator struct {
	mu       sync.Mutex
	reserved map[string]bool // token -> reserved
}

// NewMemoryAllocator creates an allocator whose pool holds the given tokens.
func NewMemoryAllocator(tokens ...string) *MemoryAllocator {
	reserved := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		reserved[token] = false
	}

	return &MemoryAllocator{reserved: reserved}
}

// Reserve claims an unreserved pool entry, or the given alias.
func (m *MemoryAllocator) Reserve(_ context.Context, alias string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if alias != "" {
		if !ValidAlias(alias) {
			return "", shortener.ErrInvalidAlias
		}

		if _, exists := m.reserved[alias]; exists {
			return "", shortener.ErrAliasTaken
		}

		m.reserved[alias] = true

		return alias, nil
	}

	for token, taken := range m.reserved {
		if !taken {
			m.reserved[token] = true

			return token, nil
		}
	}

	return "", shortener.ErrPoolExhausted
}

// Remaining returns the number of unreserved pool entries.
func (m *MemoryAllocator) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int

	for _, taken := range m.reserved {
		if !taken {
			n++
		}
	}

	return n
}
