package analytics

import "time"

// Topic is the stream all lifecycle events are broadcast on.
const Topic = "urlEvents"

// Event kinds.
const (
	TypeCreate   = "create"
	TypeRedirect = "redirect"
)

// EventData is the payload of a lifecycle event.
type EventData struct {
	ShortID string `json:"shortId"`
	LongURL string `json:"longUrl"`
	// CacheHit is set on redirect events only.
	CacheHit *bool `json:"cacheHit,omitempty"`
}

// Event is an immutable lifecycle fact. Events have no identity beyond
// occurrence; consumers tolerate duplicates.
type Event struct {
	Type      string    `json:"type"`
	Data      EventData `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
