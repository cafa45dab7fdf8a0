package tradegen

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var tradeColumns = []string{
	"trade_id", "isin", "quantity", "price",
	"t_date", "s_date", "c_party", "side", "b_id", "com_name",
}

// Store persists generated trade sets into Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new trade store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the clean and noisy trade tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, table := range []string{"trade_clean", "trade_noisy"} {
		ddl := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				trade_id TEXT PRIMARY KEY,
				isin     TEXT NOT NULL,
				quantity INTEGER NOT NULL,
				price    INTEGER NOT NULL,
				t_date   DATE NOT NULL,
				s_date   DATE NOT NULL,
				c_party  TEXT NOT NULL,
				side     TEXT NOT NULL,
				b_id     TEXT NOT NULL,
				com_name TEXT NOT NULL
			)`, table)

		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}

	return nil
}

// SaveClean bulk-loads the clean trade set.
func (s *Store) SaveClean(ctx context.Context, trades []Trade) (int64, error) {
	return s.copyInto(ctx, "trade_clean", trades)
}

// SaveNoisy bulk-loads the noisy trade set.
func (s *Store) SaveNoisy(ctx context.Context, trades []Trade) (int64, error) {
	return s.copyInto(ctx, "trade_noisy", trades)
}

func (s *Store) copyInto(ctx context.Context, table string, trades []Trade) (int64, error) {
	rows := make([][]any, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []any{
			t.TradeID, t.ISIN, t.Quantity, t.Price,
			t.TradeDate, t.SettlementDate, t.Counterparty, t.Side, t.BrokerID, t.CompanyName,
		})
	}

	count, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, tradeColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}

	return count, nil
}
