package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"expired-listings/apperrors"
	"expired-listings/models"
	"expired-listings/services"
	"expired-listings/storage"
)

type apiRow struct {
	MLS          string `json:"mls"`
	LinkHTML     string `json:"mls_link_html"`
	Address      string `json:"address"`
	PropertyType string `json:"property_type"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	HouseSize    string `json:"house_size"`
	ListPrice    string `json:"list_price"`
	DaysOnMarket string `json:"days_on_market"`
	YearBuilt    string `json:"year_built"`
	CancelDate   string `json:"cancel_date"`
}

type analyzeResponse struct {
	RunID   uuid.UUID             `json:"run_id"`
	Message string                `json:"message"`
	Total   int                   `json:"total"`
	Matched int                   `json:"matched"`
	Options models.FilterOptions  `json:"options"`
	Summary *models.InsightReport `json:"summary"`
	Rows    []apiRow              `json:"rows"`
}

func (s *Server) handleAPIAnalyze(c echo.Context) error {
	u, err := openUploads(c)
	if err != nil {
		return err
	}
	defer u.Close()

	if !u.complete() {
		return apperrors.ValidationError(missingUploadsMessage)
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
		return err
	}

	view := services.BuildView(s.formatter, s.insights, run.Listings, filters)
	resp := analyzeResponse{
		RunID:   run.ID,
		Message: fmt.Sprintf("Found %d expired properties not currently listed or sold", view.Total),
		Total:   view.Total,
		Matched: len(view.Rows),
		Options: view.Options,
		Summary: view.Report,
		Rows:    make([]apiRow, 0, len(view.Rows)),
	}
	for _, r := range view.Rows {
		resp.Rows = append(resp.Rows, apiRow{
			MLS:          r.Listing.MLS,
			LinkHTML:     string(r.MLSLink),
			Address:      r.Address,
			PropertyType: r.PropertyType,
			Bedrooms:     r.Bedrooms,
			Bathrooms:    r.Bathrooms,
			HouseSize:    r.HouseSize,
			ListPrice:    r.ListPrice,
			DaysOnMarket: r.DaysOnMarket,
			YearBuilt:    r.YearBuilt,
			CancelDate:   r.CancelDate,
		})
	}

	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write analyze response: %w", err)
	}
	return nil
}

func (s *Server) handleListRuns(c echo.Context) error {
	runs, err := s.store.ListRuns(c.Request().Context(), storage.DefaultListLimit)
	if err != nil {
		return apperrors.InternalError("failed to list runs", err)
	}
	if runs == nil {
		runs = []*models.RunSummary{}
	}

	if err := c.JSON(http.StatusOK, map[string]any{"runs": runs}); err != nil {
		return fmt.Errorf("failed to write runs response: %w", err)
	}
	return nil
}
