package services

import (
	"context"
	"fmt"
	"io"

	"expired-listings/apperrors"
	"expired-listings/models"
	"expired-listings/utils"
)

// requiredOffMarketColumns must be present in the off-market export for the
// results table to be built.
var requiredOffMarketColumns = []string{
	models.ColMLS, models.ColAddress, models.ColPropertyType, models.ColBedrooms,
	models.ColBathrooms, models.ColHouseSize, models.ColListPrice, models.ColDaysOnMarket,
	models.ColYearBuilt, models.ColCancelDate,
}

// Inputs are the three exports of one analysis.
type Inputs struct {
	OffMarket io.Reader
	Sold      io.Reader
	ForSale   io.Reader
}

// Analyzer runs load → clean → set-difference over three exports.
type Analyzer struct {
	loader      *Loader
	logger      *utils.Logger
	concurrency int
}

// NewAnalyzer creates an Analyzer that parses up to concurrency exports at once.
func NewAnalyzer(logger *utils.Logger, concurrency int) *Analyzer {
	return &Analyzer{loader: NewLoader(logger), logger: logger, concurrency: concurrency}
}

// Analyze loads the three exports and returns the expired, unlisted
// off-market listings.
func (a *Analyzer) Analyze(ctx context.Context, in Inputs) (*models.Analysis, error) {
	sources := []struct {
		source models.Source
		r      io.Reader
	}{
		{models.SourceOffMarket, in.OffMarket},
		{models.SourceSold, in.Sold},
		{models.SourceForSale, in.ForSale},
	}

	for _, s := range sources {
		if s.r == nil {
			return nil, apperrors.ValidationError("Please upload all three CSV files to begin analysis.").
				WithField("source", string(s.source))
		}
	}

	datasets := make([]*models.Dataset, len(sources))
	pool := utils.NewWorkerPool(a.concurrency)
	for i, s := range sources {
		i, s := i, s
		pool.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			datasets[i], err = a.loader.LoadAndClean(s.r, s.source)
			return err
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, processingError(err)
	}

	offMarket, sold, forSale := datasets[0], datasets[1], datasets[2]
	for _, col := range requiredOffMarketColumns {
		if !offMarket.HasColumn(col) {
			return nil, apperrors.ValidationError(fmt.Sprintf("Error processing files: off-market export is missing column %q", col)).
				WithField("source", string(models.SourceOffMarket))
		}
	}

	expired := FindExpiredUnlisted(offMarket.Listings, sold.Listings, forSale.Listings)
	a.logger.Info("[analyzer] %d off-market, %d sold (%d distinct), %d for-sale (%d distinct) -> %d expired and unlisted",
		len(offMarket.Listings), len(sold.Listings), addressSet(sold.Listings).Size(),
		len(forSale.Listings), addressSet(forSale.Listings).Size(), len(expired))

	return &models.Analysis{
		OffMarketRows: len(offMarket.Listings),
		SoldRows:      len(sold.Listings),
		ForSaleRows:   len(forSale.Listings),
		Expired:       expired,
	}, nil
}

// processingError prefixes load failures the way they are shown to users.
func processingError(err error) error {
	if !apperrors.IsType(err, apperrors.TypeValidation) {
		return err
	}
	loadErr := apperrors.AsStructuredError(err)
	wrapped := apperrors.ValidationErrorf(loadErr.Cause, "Error processing files: %s", loadErr.Message)
	for k, v := range loadErr.Context {
		wrapped.WithField(k, v)
	}
	return wrapped
}
