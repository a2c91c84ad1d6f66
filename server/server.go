package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"expired-listings/config"
	"expired-listings/metrics"
	"expired-listings/report"
	"expired-listings/services"
	"expired-listings/storage"
	"expired-listings/utils"
	"expired-listings/web"
)

// pdfRenderer prints a run report. *report.PDFRenderer satisfies it.
type pdfRenderer interface {
	Available() bool
	RenderPDF(ctx context.Context, doc *report.Document) ([]byte, error)
}

// Deps are the collaborators the HTTP server is built from.
type Deps struct {
	Store     storage.RunStore
	Analyzer  *services.Analyzer
	Formatter *services.Formatter
	Insights  *services.InsightService
	PDF       pdfRenderer
	Registry  *prometheus.Registry
	Logger    *utils.Logger
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *utils.Logger

	store     storage.RunStore
	analyzer  *services.Analyzer
	formatter *services.Formatter
	insights  *services.InsightService
	pdf       pdfRenderer

	registry        *prometheus.Registry
	httpMetrics     *metrics.HTTPMetrics
	analysisMetrics *metrics.AnalysisMetrics

	templates *template.Template
	startTime time.Time
}

func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	registry := deps.Registry
	if registry == nil {
		registry = metrics.NewRegistry()
	}

	srv := &Server{
		echo:            e,
		config:          cfg,
		logger:          deps.Logger,
		store:           deps.Store,
		analyzer:        deps.Analyzer,
		formatter:       deps.Formatter,
		insights:        deps.Insights,
		pdf:             deps.PDF,
		registry:        registry,
		httpMetrics:     metrics.NewHTTPMetrics(registry),
		analysisMetrics: metrics.NewAnalysisMetrics(registry),
		templates:       templates,
		startTime:       time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	s.logger.Info("[server] Listening on :%s", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

var templateFuncs = template.FuncMap{
	"dollars": func(v float64) string { return "$" + humanize.Comma(int64(math.Round(v))) },
	"num":     func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"eqNum":   func(v float64, i int) bool { return v == float64(i) },
	"contains": func(list []string, s string) bool {
		return slices.Contains(list, s)
	},
	"ago": humanize.Time,
}

func parseTemplates() (*template.Template, error) {
	templates, err := template.New("").Funcs(templateFuncs).ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}

func (s *Server) renderTemplate(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[server] Template %s failed for %s: %v", name, c.Request().URL.Path, err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(status, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
