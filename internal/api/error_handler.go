package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/masjidmap/auth-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps client-correctable domain errors to field-attributed messages and
//     deterministic HTTP status codes.
//   - Collapses unknown-user and wrong-password into one generic message so
//     accounts cannot be enumerated.
//   - Logs operational errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, verr.Error()
	}

	var notUnique *domain.NotUniqueError
	if errors.As(err, &notUnique) {
		return http.StatusConflict, notUnique.Error()
	}

	var expired *domain.SessionExpiredError
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrPasswordMismatch):
		// One message for both halves of a failed login.
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, domain.ErrInvalidSessionToken),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.As(err, &expired):
		return http.StatusUnauthorized, "invalid or expired session"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
