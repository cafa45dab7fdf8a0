package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/shortpool/internal/shortener"
)

// PostgresStore is the PostgreSQL implementation of shortener.RecordStore.
// It is the system of record; rows are never physically removed here,
// soft delete and expiry are read-time filters.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed record store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (token, long_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		shortURL.Token,
		shortURL.LongURL,
		shortURL.CreatedAt,
		shortURL.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shortener.ErrConflict
		}

		return fmt.Errorf("failed to create short url: %w", err)
	}

	return nil
}

// FindActive returns the record for a token, applying the active filter
// server-side: not soft-deleted and not past its expiry.
func (p *PostgresStore) FindActive(ctx context.Context, token string) (*shortener.ShortURL, error) {
	query := `
		SELECT token, long_url, created_at, expires_at, deleted
		FROM short_urls
		WHERE token = $1
		  AND NOT deleted
		  AND (expires_at IS NULL OR expires_at > NOW())
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, token).Scan(
		&url.Token,
		&url.LongURL,
		&url.CreatedAt,
		&url.ExpiresAt,
		&url.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("failed to find short url: %w", err)
	}

	return &url, nil
}

// SoftDelete marks an active record deleted. Matched-zero-rows means the
// record was unknown, already deleted or expired, all reported uniformly
// as ErrNotFound; a second delete of the same token is therefore NotFound,
// not success.
func (p *PostgresStore) SoftDelete(ctx context.Context, token string) error {
	query := `
		UPDATE short_urls
		SET deleted = TRUE
		WHERE token = $1
		  AND NOT deleted
		  AND (expires_at IS NULL OR expires_at > NOW())
	`

	tag, err := p.pool.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to soft delete short url: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// Compile-time check.
var _ shortener.RecordStore = (*PostgresStore)(nil)
