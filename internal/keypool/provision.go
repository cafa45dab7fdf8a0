package keypool

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

// Provisioner bulk-generates candidate tokens and loads them into the pool
// ahead of demand. The allocator only ever consumes rows the provisioner
// created; it never generates tokens itself.
type Provisioner struct {
	pool     *pgxpool.Pool
	generate func() string
	logger   *zap.Logger
}

// NewProvisioner creates a provisioner generating tokens of the given
// length from the given alphabet.
func NewProvisioner(pool *pgxpool.Pool, alphabet string, length int, logger *zap.Logger) (*Provisioner, error) {
	generate, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("failed to build token generator: %w", err)
	}

	return &Provisioner{
		pool:     pool,
		generate: generate,
		logger:   logger,
	}, nil
}

// EnsureSchema creates the pool and record tables if they do not exist.
func (p *Provisioner) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS tokens (
			token    TEXT PRIMARY KEY,
			reserved BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS short_urls (
			token      TEXT PRIMARY KEY,
			long_url   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ,
			deleted    BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}

	for _, stmt := range ddl {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// Preload inserts total freshly generated tokens in batches, skipping any
// that collide with existing rows. Returns the number actually inserted.
func (p *Provisioner) Preload(ctx context.Context, total, batchSize int) (int64, error) {
	if batchSize <= 0 || batchSize > total {
		batchSize = total
	}

	var inserted int64

	for offset := 0; offset < total; offset += batchSize {
		size := batchSize
		if remaining := total - offset; remaining < size {
			size = remaining
		}

		batch := p.uniqueBatch(size)

		tag, err := p.pool.Exec(ctx, `
			INSERT INTO tokens (token)
			SELECT unnest($1::text[])
			ON CONFLICT DO NOTHING
		`, batch)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert token batch: %w", err)
		}

		inserted += tag.RowsAffected()

		p.logger.Info("token batch loaded",
			zap.Int("offset", offset),
			zap.Int("size", size),
			zap.Int64("inserted", tag.RowsAffected()),
		)
	}

	return inserted, nil
}

// uniqueBatch generates size tokens with no duplicates within the batch.
// Collisions against rows already in the pool are left to ON CONFLICT.
func (p *Provisioner) uniqueBatch(size int) []string {
	seen := make(map[string]struct{}, size)
	batch := make([]string, 0, size)

	for len(batch) < size {
		token := p.generate()
		if _, ok := seen[token]; ok {
			continue
		}

		seen[token] = struct{}{}
		batch = append(batch, token)
	}

	return batch
}
