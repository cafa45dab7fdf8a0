package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/shortpool/internal/analytics"
)

// Postgres persists lifecycle events in an append-only table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres-backed event store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the events table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS url_events (
			id          BIGSERIAL PRIMARY KEY,
			type        TEXT NOT NULL,
			token       TEXT NOT NULL,
			long_url    TEXT NOT NULL,
			cache_hit   BOOLEAN,
			occurred_at TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure events schema: %w", err)
	}

	return nil
}

func (p *Postgres) SaveEvent(ctx context.Context, event *analytics.Event) error {
	query := `
		INSERT INTO url_events (type, token, long_url, cache_hit, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Type,
		event.Data.ShortID,
		event.Data.LongURL,
		event.Data.CacheHit,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

func (p *Postgres) Stats(ctx context.Context, shortID string) (*analytics.Stats, error) {
	query := `
		SELECT
			COUNT(*)                                     AS redirects,
			COUNT(*) FILTER (WHERE cache_hit IS TRUE)    AS hits,
			COUNT(*) FILTER (WHERE cache_hit IS FALSE)   AS misses
		FROM url_events
		WHERE token = $1 AND type = 'redirect'
	`

	stats := &analytics.Stats{ShortID: shortID}

	err := p.pool.QueryRow(ctx, query, shortID).Scan(
		&stats.RedirectCount,
		&stats.CacheHits,
		&stats.CacheMisses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	return stats, nil
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
