package server

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"expired-listings/apperrors"
	"expired-listings/models"
	"expired-listings/services"
	"expired-listings/storage"
)

const pageTitle = "Expired Listings Analyzer"

type indexPage struct {
	Title       string
	Notice      string
	Error       string
	MaxUploadMB int
	Runs        []*models.RunSummary
}

type resultsPage struct {
	Title        string
	RunID        uuid.UUID
	View         *services.ResultView
	Columns      []string
	ChartHTML    string
	DownloadURI  template.URL
	DownloadName string
	ExportURL    template.URL
	PDFURL       template.URL
	PDFAvailable bool
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderIndex(c, http.StatusOK, indexPage{})
}

func (s *Server) renderIndex(c echo.Context, status int, page indexPage) error {
	page.Title = pageTitle
	page.MaxUploadMB = s.config.MaxUploadMB

	runs, err := s.store.ListRuns(c.Request().Context(), storage.DefaultListLimit)
	if err != nil {
		s.logger.Warn("[server] Could not list runs: %v", err)
	}
	page.Runs = runs

	return s.renderTemplate(c, status, "index.html", page)
}

func (s *Server) handleAnalyze(c echo.Context) error {
	u, err := openUploads(c)
	if err != nil {
		return s.renderIndex(c, http.StatusBadRequest, indexPage{Error: apperrors.AsStructuredError(err).Message})
	}
	defer u.Close()

	if !u.complete() {
		return s.renderIndex(c, http.StatusOK, indexPage{Notice: missingUploadsMessage})
	}

	params, err := c.FormParams()
	if err != nil {
		return apperrors.ValidationErrorf(err, "invalid form")
	}
	filters, err := parseFilters(params)
	if err != nil {
		return err
	}

	run, err := s.analyzeUpload(c, u)
	if err != nil {
		if apperrors.IsType(err, apperrors.TypeValidation) {
			return s.renderIndex(c, http.StatusBadRequest, indexPage{Error: apperrors.AsStructuredError(err).Message})
		}
		return err
	}

	return s.renderResults(c, run, filters)
}

func (s *Server) handleRun(c echo.Context) error {
	run, err := s.loadRun(c)
	if err != nil {
		return err
	}

	filters, err := parseFilters(c.QueryParams())
	if err != nil {
		return err
	}

	return s.renderResults(c, run, filters)
}

func (s *Server) renderResults(c echo.Context, run *models.Run, filters *models.Filters) error {
	view := services.BuildView(s.formatter, s.insights, run.Listings, filters)

	csvData, err := services.ExportCSVBytes(view.Rows)
	if err != nil {
		return apperrors.InternalError("failed to build download", err)
	}

	var chart string
	if len(view.Rows) > 0 {
		chart, err = services.RenderPriceChartString(view.Listings())
		if err != nil {
			s.logger.Warn("[server] Price chart for run %s failed: %v", run.ID, err)
		}
	}

	query := encodeFilters(view.Filters).Encode()
	page := resultsPage{
		Title:        pageTitle,
		RunID:        run.ID,
		View:         view,
		Columns:      models.DisplayColumns,
		ChartHTML:    chart,
		DownloadURI:  template.URL("data:text/csv;base64," + base64.StdEncoding.EncodeToString(csvData)),
		DownloadName: services.ExportFileName,
		ExportURL:    template.URL("/runs/" + run.ID.String() + "/export.csv?" + query),
		PDFURL:       template.URL("/runs/" + run.ID.String() + "/report.pdf?" + query),
		PDFAvailable: s.pdf != nil && s.pdf.Available(),
	}

	return s.renderTemplate(c, http.StatusOK, "results.html", page)
}

// loadRun fetches the run named by the :id path parameter.
func (s *Server) loadRun(c echo.Context) (*models.Run, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, apperrors.NotFoundError("run not found").WithField("run_id", c.Param("id"))
	}

	run, err := s.store.GetRun(c.Request().Context(), id)
	if errors.Is(err, storage.ErrRunNotFound) {
		return nil, apperrors.NotFoundError("run not found").WithField("run_id", id.String())
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load run", err)
	}
	return run, nil
}

func newRun(a *models.Analysis) *models.Run {
	return &models.Run{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
		OffMarketRows: a.OffMarketRows,
		SoldRows:      a.SoldRows,
		ForSaleRows:   a.ForSaleRows,
		Listings:      a.Expired,
	}
}
