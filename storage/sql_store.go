package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"expired-listings/models"
)

const listingColumns = 12

// dialect captures the differences between the SQL backends.
type dialect struct {
	name   string
	schema string
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
}

// sqlStore persists runs through database/sql. Timestamps are stored as
// unix milliseconds so both drivers scan them the same way.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("%s: migrate: %w", s.dialect.name, err)
	}
	return nil
}

// SaveRun inserts the run and its listings in one transaction.
func (s *sqlStore) SaveRun(ctx context.Context, run *models.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", s.dialect.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO runs (id, created_at, off_market_rows, sold_rows, for_sale_rows, expired_count)
		VALUES (%s)`, s.placeholders(0, 6))
	if _, err := tx.ExecContext(ctx, query,
		run.ID.String(), run.CreatedAt.UnixMilli(), run.OffMarketRows, run.SoldRows, run.ForSaleRows, len(run.Listings),
	); err != nil {
		return fmt.Errorf("%s: insert run: %w", s.dialect.name, err)
	}

	const batchSize = 50
	for i := 0; i < len(run.Listings); i += batchSize {
		end := min(i+batchSize, len(run.Listings))
		if err := s.insertBatch(ctx, tx, run.ID, i, run.Listings[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", s.dialect.name, err)
	}
	return nil
}

func (s *sqlStore) insertBatch(ctx context.Context, tx *sql.Tx, runID uuid.UUID, offset int, batch []*models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		valueStrings = append(valueStrings, "("+s.placeholders(idx*listingColumns, listingColumns)+")")
		valueArgs = append(valueArgs,
			runID.String(), offset+idx, l.MLS, l.Address, l.PropertyType,
			l.Bedrooms, l.Bathrooms, l.HouseSize, l.ListPrice, l.DaysOnMarket,
			l.YearBuilt, l.CancelDate)
	}

	query := fmt.Sprintf(`
		INSERT INTO run_listings (run_id, position, mls, address, property_type,
			bedrooms, bathrooms, house_size, list_price, days_on_market, year_built, cancel_date)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("%s: insert listings: %w", s.dialect.name, err)
	}
	return nil
}

func (s *sqlStore) placeholders(start, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = s.dialect.placeholder(start + i + 1)
	}
	return strings.Join(ph, ",")
}

// GetRun loads a run with its listings in original order.
func (s *sqlStore) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	summary, err := s.scanSummary(s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, created_at, off_market_rows, sold_rows, for_sale_rows, expired_count
		FROM runs WHERE id = %s`, s.dialect.placeholder(1)), id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT mls, address, property_type, bedrooms, bathrooms, house_size,
			list_price, days_on_market, year_built, cancel_date
		FROM run_listings
		WHERE run_id = %s
		ORDER BY position`, s.dialect.placeholder(1)), id.String())
	if err != nil {
		return nil, fmt.Errorf("%s: fetch listings: %w", s.dialect.name, err)
	}
	defer rows.Close()

	run := &models.Run{
		ID:            summary.ID,
		CreatedAt:     summary.CreatedAt,
		OffMarketRows: summary.OffMarketRows,
		SoldRows:      summary.SoldRows,
		ForSaleRows:   summary.ForSaleRows,
		Listings:      make([]*models.Listing, 0, summary.ExpiredCount),
	}
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(
			&l.MLS, &l.Address, &l.PropertyType, &l.Bedrooms, &l.Bathrooms, &l.HouseSize,
			&l.ListPrice, &l.DaysOnMarket, &l.YearBuilt, &l.CancelDate,
		); err != nil {
			return nil, fmt.Errorf("%s: scan listing: %w", s.dialect.name, err)
		}
		run.Listings = append(run.Listings, l)
	}
	return run, rows.Err()
}

// ListRuns returns up to limit runs, newest first.
func (s *sqlStore) ListRuns(ctx context.Context, limit int) ([]*models.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, created_at, off_market_rows, sold_rows, for_sale_rows, expired_count
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT %s`, s.dialect.placeholder(1)), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: list runs: %w", s.dialect.name, err)
	}
	defer rows.Close()

	var out []*models.RunSummary
	for rows.Next() {
		summary, err := s.scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *sqlStore) scanSummary(row rowScanner) (*models.RunSummary, error) {
	var (
		id        string
		createdAt int64
		summary   models.RunSummary
	)
	if err := row.Scan(&id, &createdAt, &summary.OffMarketRows, &summary.SoldRows, &summary.ForSaleRows, &summary.ExpiredCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: scan run: %w", s.dialect.name, err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%s: parse run id %q: %w", s.dialect.name, id, err)
	}
	summary.ID = parsed
	summary.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &summary, nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
