package report

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expired-listings/models"
	"expired-listings/services"
	"expired-listings/utils"
)

func quietLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, "error", "text") }

func testView(t *testing.T, filters *models.Filters) *services.ResultView {
	t.Helper()
	listings := []*models.Listing{
		{MLS: "R100", Address: "1 Main St Vancouver BC V5K 0A1", PropertyType: "House",
			ListPrice: sql.NullFloat64{Float64: 1500000, Valid: true}, DaysOnMarket: sql.NullFloat64{Float64: 30, Valid: true}},
		{MLS: "R200", Address: "<b>2 Oak</b>", PropertyType: "Condo",
			ListPrice: sql.NullFloat64{Float64: 500000, Valid: true}, DaysOnMarket: sql.NullFloat64{Float64: 10, Valid: true}},
	}
	return services.BuildView(services.NewFormatter([]string{"Vancouver"}), services.NewInsightService(quietLogger()), listings, filters)
}

func TestRenderHTML(t *testing.T) {
	doc := &Document{RunID: "abc", GeneratedAt: time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC), View: testView(t, nil)}

	out, err := RenderHTMLBytes(doc)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Expired Listings</title>")
	assert.Contains(t, html, "Run abc")
	assert.Contains(t, html, "2024-07-01 09:30 UTC")
	assert.Contains(t, html, "Found 2 expired properties not currently listed or sold.")
	assert.Contains(t, html, `href="https://www.zealty.ca/mls-R100/1-MAIN-ST-Vancouver-BC/`)
	assert.Contains(t, html, "$1,000,000")
	assert.Contains(t, html, "&lt;b&gt;2 Oak&lt;/b&gt;")
	assert.NotContains(t, html, "<b>2 Oak</b>")
}

func TestRenderHTMLFiltered(t *testing.T) {
	doc := &Document{Title: "Filtered", View: testView(t, &models.Filters{MinPrice: 2000000})}

	out, err := RenderHTMLBytes(doc)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Found 0 expired properties not currently listed or sold (of 2 before filters).")
	assert.Contains(t, html, "No properties match the selected filters.")
	assert.False(t, strings.Contains(html, "<table>"))
}

func TestFindChromeBinaryConfigured(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-chrome")
	assert.Equal(t, "", findChromeBinary(missing))

	self := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(self, []byte("#!/bin/sh\n"), 0o755))
	assert.Equal(t, self, findChromeBinary(self))
}

func TestPrintWithoutBrowser(t *testing.T) {
	r := NewPDFRenderer(filepath.Join(t.TempDir(), "no-such-chrome"), 1, quietLogger())

	assert.False(t, r.Available())
	_, err := r.Print(context.Background(), []byte("<p>hi</p>"))
	assert.ErrorIs(t, err, ErrBrowserUnavailable)
}
