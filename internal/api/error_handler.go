package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/performile/courier-platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Details
// carries the raw backend row for business-rule failures; it is omitted
// otherwise.
type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Surfaces pricing-rule failures with the raw row as details.
//   - Logs unexpected errors internally; their real cause reaches the client
//     only when devMode is set.
func NewHTTPErrorHandler(log zerolog.Logger, devMode bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c, devMode)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, devMode bool) (int, errorResponse) {
	// Echo's own errors (bind failures, 404/405 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Business-rule failure reported by the pricing backend: 400 with the
	// raw row as details.
	var ruleErr *domain.PricingRuleError
	if errors.As(err, &ruleErr) {
		return http.StatusBadRequest, errorResponse{Error: ruleErr.Message, Details: ruleErr.Details}
	}

	// Known domain errors → deterministic HTTP codes. Credential errors stay
	// generic so callers cannot probe which part of a credential was wrong.
	switch {
	case errors.Is(err, domain.ErrInvalidQuote):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrMissingIdentity):
		return http.StatusBadRequest, errorResponse{Error: domain.ErrMissingIdentity.Error()}
	case errors.Is(err, domain.ErrInvalidCredential), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrNoPricing):
		return http.StatusNotFound, errorResponse{Error: "No pricing found for this courier/service"}
	case errors.Is(err, domain.ErrCourierNotFound):
		return http.StatusNotFound, errorResponse{Error: "courier not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if devMode {
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Details: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
