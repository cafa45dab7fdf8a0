package analytics

import "context"

// Stats aggregates redirect events for one token.
type Stats struct {
	ShortID       string `json:"shortId"`
	RedirectCount int64  `json:"redirectCount"`
	CacheHits     int64  `json:"cacheHits"`
	CacheMisses   int64  `json:"cacheMisses"`
}

// Store persists lifecycle events and answers per-token aggregates.
type Store interface {
	SaveEvent(ctx context.Context, event *Event) error
	Stats(ctx context.Context, shortID string) (*Stats, error)
}
