package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"expired-listings/utils"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id              VARCHAR(36) PRIMARY KEY,
		created_at      BIGINT      NOT NULL,
		off_market_rows INTEGER     NOT NULL DEFAULT 0,
		sold_rows       INTEGER     NOT NULL DEFAULT 0,
		for_sale_rows   INTEGER     NOT NULL DEFAULT 0,
		expired_count   INTEGER     NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS run_listings (
		run_id         VARCHAR(36)   NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position       INTEGER       NOT NULL,
		mls            TEXT          NOT NULL DEFAULT '',
		address        TEXT          NOT NULL DEFAULT '',
		property_type  TEXT          NOT NULL DEFAULT '',
		bedrooms       NUMERIC(6,2),
		bathrooms      NUMERIC(6,2),
		house_size     NUMERIC(12,2),
		list_price     NUMERIC(14,2),
		days_on_market NUMERIC(8,2),
		year_built     INTEGER       NOT NULL DEFAULT 0,
		cancel_date    TEXT          NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// PostgresStore persists runs to PostgreSQL.
type PostgresStore struct {
	*sqlStore
}

// NewPostgresStore opens a connection to PostgreSQL, retrying the initial
// ping, runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	store := &PostgresStore{sqlStore: &sqlStore{
		db: db,
		dialect: dialect{
			name:        "postgres",
			schema:      postgresSchema,
			placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		},
	}}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
