package keypool

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/shortpool/internal/shortener"
)

// DefaultAlphabet is the base62 alphabet pool tokens are drawn from.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the default pool token length.
const DefaultLength = 7

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,20}$`)

// ValidAlias reports whether the alias matches the allowed pattern:
// 4-20 characters, alphanumeric, underscore or hyphen.
func ValidAlias(alias string) bool {
	return aliasPattern.MatchString(alias)
}

// PgAllocator reserves tokens against the Postgres-backed pool.
type PgAllocator struct {
	pool *pgxpool.Pool
}

// NewPgAllocator creates a new Postgres-backed allocator.
func NewPgAllocator(pool *pgxpool.Pool) *PgAllocator {
	return &PgAllocator{pool: pool}
}

// Reserve returns a unique token. With an alias it inserts the alias as an
// already-reserved pool row; the primary key enforces exclusivity. Without
// one it claims an unreserved row inside a single transaction using a
// locking read that skips rows locked by concurrent callers, so N callers
// each make progress instead of serializing behind one row lock.
func (a *PgAllocator) Reserve(ctx context.Context, alias string) (string, error) {
	if alias != "" {
		return a.reserveAlias(ctx, alias)
	}

	return a.reserveFromPool(ctx)
}

func (a *PgAllocator) reserveAlias(ctx context.Context, alias string) (string, error) {
	if !ValidAlias(alias) {
		return "", shortener.ErrInvalidAlias
	}

	query := `
		INSERT INTO tokens (token, reserved)
		VALUES ($1, TRUE)
	`

	if _, err := a.pool.Exec(ctx, query, alias); err != nil {
		if isUniqueViolation(err) {
			return "", shortener.ErrAliasTaken
		}

		return "", fmt.Errorf("failed to reserve alias: %w", err)
	}

	return alias, nil
}

func (a *PgAllocator) reserveFromPool(ctx context.Context) (string, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin reservation: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	selectQuery := `
		SELECT token
		FROM tokens
		WHERE NOT reserved
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var token string

	err = tx.QueryRow(ctx, selectQuery).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrPoolExhausted
		}

		return "", fmt.Errorf("failed to select pool entry: %w", err)
	}

	updateQuery := `
		UPDATE tokens
		SET reserved = TRUE
		WHERE token = $1
	`

	if _, err = tx.Exec(ctx, updateQuery, token); err != nil {
		return "", fmt.Errorf("failed to mark token reserved: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit reservation: %w", err)
	}

	return token, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
