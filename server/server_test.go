package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"expired-listings/config"
	"expired-listings/metrics"
	"expired-listings/models"
	"expired-listings/report"
	"expired-listings/services"
	"expired-listings/storage"
	"expired-listings/utils"
)

const offMarketCSV = `MLS,Address,Property Type,Bedrooms,Bathrooms,House Size (sqft),List Price,Days on Market,Year Built,Listing Cancel Date
R1,1 A St Vancouver BC,House,3,2,1800,1250000,30,1999,2024-01-02
R2,2 B St Vancouver BC,Condo,2,1,900,650000,45,,2024-02-03
R3,3 C St Surrey BC,House,4,3,2400,1500000,90,2010,2024-03-04
R4,4 D St Surrey BC,Townhouse,3,2,1400,990000,20,2005,2024-04-05
`

const soldCSV = `MLS,Address,Sold Price
S1,1 a st vancouver bc,1200000
`

const forSaleCSV = `MLS,Address,List Price
F1,3 C St Surrey BC,1490000
`

type fakePDF struct {
	available bool
	data      []byte
	err       error
	doc       *report.Document
}

func (f *fakePDF) Available() bool { return f.available }

func (f *fakePDF) RenderPDF(_ context.Context, doc *report.Document) ([]byte, error) {
	f.doc = doc
	return f.data, f.err
}

type failingStore struct {
	storage.RunStore
}

func (failingStore) Ping(context.Context) error { return errors.New("database is closed") }

func newTestServer(t *testing.T, opts ...func(*Deps)) *Server {
	t.Helper()

	logger := utils.NewLoggerTo(io.Discard, "error", "text")
	cfg := &config.Config{Port: "0", MaxUploadMB: 1}
	deps := Deps{
		Store:     storage.NewMemoryStore(10),
		Analyzer:  services.NewAnalyzer(logger, 3),
		Formatter: services.NewFormatter([]string{"Vancouver", "Surrey"}),
		Insights:  services.NewInsightService(logger),
		PDF:       &fakePDF{},
		Registry:  metrics.NewRegistry(),
		Logger:    logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := NewServer(cfg, deps)
	require.NoError(t, err)
	return srv
}

func withPDF(p pdfRenderer) func(*Deps) {
	return func(d *Deps) { d.PDF = p }
}

func withStore(s storage.RunStore) func(*Deps) {
	return func(d *Deps) { d.Store = s }
}

// uploadRequest builds a multipart request carrying the given files and
// form fields.
func uploadRequest(t *testing.T, target string, files map[string]string, fields map[string][]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func allUploads() map[string]string {
	return map[string]string{
		fieldOffMarket: offMarketCSV,
		fieldSold:      soldCSV,
		fieldForSale:   forSaleCSV,
	}
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// seedRun analyzes the fixture exports and stores the result.
func seedRun(t *testing.T, srv *Server) *models.Run {
	t.Helper()

	rec := serve(srv, uploadRequest(t, "/analyze", allUploads(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	runs, err := srv.store.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run, err := srv.store.GetRun(context.Background(), runs[0].ID)
	require.NoError(t, err)
	return run
}
