package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"expired-listings/metrics"
)

// echartsAssetsHost serves the chart library loaded by the price chart.
const echartsAssetsHost = "https://go-echarts.github.io"

func (s *Server) registerRoutes() {
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.httpMetrics.Middleware())
	s.echo.Use(ErrorHandlingMiddleware(s.logger))
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         63072000, // 2 years; only sent over HTTPS
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' " + echartsAssetsHost + "; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))

	uploadLimit := middleware.BodyLimit(fmt.Sprintf("%dB", s.config.MaxUploadBytes()))

	s.registerHealthRoutes()

	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/analyze", s.handleAnalyze, uploadLimit)
	s.echo.GET("/runs", s.handleListRuns)
	s.echo.GET("/runs/:id", s.handleRun)
	s.echo.GET("/runs/:id/export.csv", s.handleExportCSV)
	s.echo.GET("/runs/:id/report.pdf", s.handleReportPDF)

	s.echo.POST("/api/analyze", s.handleAPIAnalyze, uploadLimit)
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.Slog().Info("Request", attrs...)
			return nil
		},
	})
}
