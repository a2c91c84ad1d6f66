package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"expired-listings/models"
)

// ErrRunNotFound is returned when a run ID is unknown to the store.
var ErrRunNotFound = errors.New("storage: run not found")

// RunStore is the interface any analysis-run backend must satisfy.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.RunSummary, error)
	Ping(ctx context.Context) error
	Close() error
}

// ExportWriter is the interface for writing filtered results to a file.
type ExportWriter interface {
	WriteRows(rows []*models.DisplayRow) error
	Close() error
}

// DefaultListLimit is used when ListRuns is called with a non-positive limit.
const DefaultListLimit = 20

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func summarize(run *models.Run) *models.RunSummary {
	return &models.RunSummary{
		ID:            run.ID,
		CreatedAt:     run.CreatedAt,
		OffMarketRows: run.OffMarketRows,
		SoldRows:      run.SoldRows,
		ForSaleRows:   run.ForSaleRows,
		ExpiredCount:  len(run.Listings),
	}
}
