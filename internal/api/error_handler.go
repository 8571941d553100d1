package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/api/metrics"
	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.ErrCodeNotFound:       http.StatusNotFound,
	domain.ErrCodeForbidden:      http.StatusForbidden,
	domain.ErrCodeConflict:       http.StatusConflict,
	domain.ErrCodeInvalidInput:   http.StatusUnprocessableEntity,
	domain.ErrCodeProfileMissing: http.StatusUnprocessableEntity,
	domain.ErrCodeTerminalState:  http.StatusConflict,
	domain.ErrCodeNotBookable:    http.StatusUnprocessableEntity,
	domain.ErrCodeUnauthorized:   http.StatusUnauthorized,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain error
// codes to HTTP statuses and hides unexpected errors behind a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		if status, ok := statusByCode[dErr.Code]; ok {
			metrics.DomainErrorsTotal.WithLabelValues(string(dErr.Code)).Inc()
			return status, dErr.Message
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
