package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"expired-listings/apperrors"
	"expired-listings/report"
	"expired-listings/services"
)

const reportFileName = "expired_listings.pdf"

func (s *Server) handleExportCSV(c echo.Context) error {
	run, err := s.loadRun(c)
	if err != nil {
		return err
	}
	filters, err := parseFilters(c.QueryParams())
	if err != nil {
		return err
	}

	view := services.BuildView(s.formatter, s.insights, run.Listings, filters)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, attachment(services.ExportFileName))
	res.WriteHeader(http.StatusOK)

	if err := services.ExportCSV(res, view.Rows); err != nil {
		// Headers are already sent; all that is left is to log.
		s.logger.Error("[server] CSV export of run %s failed: %v", run.ID, err)
		return nil
	}

	s.analysisMetrics.ExportsTotal.WithLabelValues("csv").Inc()
	return nil
}

func (s *Server) handleReportPDF(c echo.Context) error {
	if s.pdf == nil || !s.pdf.Available() {
		return apperrors.ExternalError("PDF reports are unavailable: no Chrome or Chromium binary found", report.ErrBrowserUnavailable)
	}

	run, err := s.loadRun(c)
	if err != nil {
		return err
	}
	filters, err := parseFilters(c.QueryParams())
	if err != nil {
		return err
	}

	doc := &report.Document{
		RunID:       run.ID.String(),
		GeneratedAt: time.Now(),
		View:        services.BuildView(s.formatter, s.insights, run.Listings, filters),
	}

	pdf, err := s.pdf.RenderPDF(c.Request().Context(), doc)
	if errors.Is(err, report.ErrBrowserUnavailable) {
		return apperrors.ExternalError("PDF reports are unavailable: no Chrome or Chromium binary found", err)
	}
	if err != nil {
		return apperrors.ExternalError("failed to render PDF report", err).WithField("run_id", run.ID.String())
	}

	s.analysisMetrics.ExportsTotal.WithLabelValues("pdf").Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(reportFileName))
	if err := c.Blob(http.StatusOK, "application/pdf", pdf); err != nil {
		return fmt.Errorf("failed to write PDF response: %w", err)
	}
	return nil
}

func attachment(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, strings.ReplaceAll(name, `"`, ""))
}
