package server

import (
	"io"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"expired-listings/apperrors"
	"expired-listings/models"
	"expired-listings/services"
)

// Multipart field names of the three exports.
const (
	fieldOffMarket = "off_market"
	fieldSold      = "sold"
	fieldForSale   = "for_sale"
)

const missingUploadsMessage = "Please upload all three CSV files to begin analysis."

// uploads holds the opened export files of one request.
type uploads struct {
	files []multipart.File
	in    services.Inputs
}

func (u *uploads) complete() bool {
	return u.in.OffMarket != nil && u.in.Sold != nil && u.in.ForSale != nil
}

func (u *uploads) Close() {
	for _, f := range u.files {
		f.Close()
	}
}

// openUploads opens whichever of the three exports the request carries.
func openUploads(c echo.Context) (*uploads, error) {
	u := &uploads{}
	targets := []struct {
		field string
		dst   *io.Reader
	}{
		{fieldOffMarket, &u.in.OffMarket},
		{fieldSold, &u.in.Sold},
		{fieldForSale, &u.in.ForSale},
	}

	for _, t := range targets {
		fh, err := c.FormFile(t.field)
		if err != nil {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			u.Close()
			return nil, apperrors.ValidationErrorf(err, "Error loading CSV file: %v", err).WithField("field", t.field)
		}
		u.files = append(u.files, f)
		*t.dst = f
	}
	return u, nil
}

// analyzeUpload runs the analysis over the request's uploads and stores the
// result as a new run.
func (s *Server) analyzeUpload(c echo.Context, u *uploads) (*models.Run, error) {
	ctx := c.Request().Context()

	analysis, err := s.analyzer.Analyze(ctx, u.in)
	if err != nil {
		if apperrors.IsType(err, apperrors.TypeValidation) {
			s.analysisMetrics.AnalysesTotal.WithLabelValues("invalid").Inc()
		} else {
			s.analysisMetrics.AnalysesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.analysisMetrics.AnalysesTotal.WithLabelValues("ok").Inc()
	s.analysisMetrics.RowsLoaded.WithLabelValues(string(models.SourceOffMarket)).Add(float64(analysis.OffMarketRows))
	s.analysisMetrics.RowsLoaded.WithLabelValues(string(models.SourceSold)).Add(float64(analysis.SoldRows))
	s.analysisMetrics.RowsLoaded.WithLabelValues(string(models.SourceForSale)).Add(float64(analysis.ForSaleRows))
	s.analysisMetrics.ExpiredFound.Observe(float64(len(analysis.Expired)))

	run := newRun(analysis)
	if err := s.store.SaveRun(ctx, run); err != nil {
		return nil, apperrors.InternalError("failed to save analysis", err)
	}

	s.logger.Info("[server] Saved run %s with %d expired listings", run.ID, len(run.Listings))
	return run, nil
}
