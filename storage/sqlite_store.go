package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS runs (
		id              TEXT    PRIMARY KEY,
		created_at      INTEGER NOT NULL,
		off_market_rows INTEGER NOT NULL DEFAULT 0,
		sold_rows       INTEGER NOT NULL DEFAULT 0,
		for_sale_rows   INTEGER NOT NULL DEFAULT 0,
		expired_count   INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS run_listings (
		run_id         TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		mls            TEXT    NOT NULL DEFAULT '',
		address        TEXT    NOT NULL DEFAULT '',
		property_type  TEXT    NOT NULL DEFAULT '',
		bedrooms       REAL,
		bathrooms      REAL,
		house_size     REAL,
		list_price     REAL,
		days_on_market REAL,
		year_built     INTEGER NOT NULL DEFAULT 0,
		cancel_date    TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// SQLiteStore persists runs to a local SQLite file.
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{sqlStore: &sqlStore{
		db: db,
		dialect: dialect{
			name:        "sqlite",
			schema:      sqliteSchema,
			placeholder: func(n int) string { return "?" + strconv.Itoa(n) },
		},
	}}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
