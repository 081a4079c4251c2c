package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/masjidmap/auth-service/internal/api/metrics"
	"github.com/masjidmap/auth-service/internal/api/sessioncookie"
	"github.com/masjidmap/auth-service/internal/core/domain"
	"github.com/masjidmap/auth-service/internal/core/ports"
)

// Session resolves the session cookie to its owning user and injects the
// identity into the request context. Requests without a valid, unexpired
// session are rejected.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := sessioncookie.Read(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
			}

			start := time.Now()
			user, err := sessions.FetchByToken(c.Request().Context(), tok)
			metrics.SessionFetchDuration.
				WithLabelValues(fetchOutcome(err)).
				Observe(time.Since(start).Seconds())
			if err != nil {
				return err
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// CurrentUser extracts the user injected by Session.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get("user").(*domain.User)
	return user, ok
}

func fetchOutcome(err error) string {
	var expired *domain.SessionExpiredError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &expired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSessionToken),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return "invalid"
	default:
		return "error"
	}
}
