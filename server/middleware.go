package server

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"expired-listings/apperrors"
	"expired-listings/utils"
)

// ErrorHandlingMiddleware turns returned errors into JSON error responses.
// Echo's own HTTP errors pass through to its default handler.
func ErrorHandlingMiddleware(logger *utils.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(err)
			logError(logger, c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(logger *utils.Logger, c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	log := logger.Slog()
	switch err.Type {
	case apperrors.TypeValidation:
		log.Info("Validation error", attrs...)
	case apperrors.TypeNotFound:
		log.Info("Not found", attrs...)
	case apperrors.TypeExternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		log.Error("External service error", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		log.Error("Internal error", attrs...)
	}
}
