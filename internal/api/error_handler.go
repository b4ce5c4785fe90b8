package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success     bool   `json:"success"`
	Error       int    `json:"error"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain error
// kinds to status codes, passes echo's own errors through, and logs anything
// else without leaking it to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Error)
			return
		}
		_ = c.JSON(resp.Error, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorResponse {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		return errorResponse{
			Error:       statusFor(de.Kind),
			Message:     de.Code,
			Description: de.Description,
		}
	}

	// Echo's own errors (bind failures, unknown routes, bad methods).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorResponse{
			Error:       he.Code,
			Message:     statusKey(he.Code),
			Description: fmt.Sprintf("%v", he.Message),
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return errorResponse{
		Error:   http.StatusInternalServerError,
		Message: "internal_server_error",
	}
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// statusKey turns a status code into the envelope key, e.g. 404 → "not_found".
func statusKey(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
