// Package sessioncookie binds session tokens to the response cookie. The
// __Host- prefix makes the cookie host-only and forces Secure + Path=/; the
// token travels only here, never in a response body.
package sessioncookie

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/masjidmap/auth-service/internal/core/service"
)

// Name is the session cookie name.
const Name = "__Host-session"

// Set attaches the session token to the outgoing response. A token that
// cannot form a valid cookie surfaces as an error rather than being dropped
// silently.
func Set(c echo.Context, token string) error {
	ck := &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.SessionDuration.Seconds()),
	}
	if err := ck.Valid(); err != nil {
		return fmt.Errorf("session cookie rejected: %w", err)
	}
	c.SetCookie(ck)
	return nil
}

// Clear expires the session cookie on the client.
func Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Read returns the session token from the request, if present.
func Read(c echo.Context) (string, bool) {
	ck, err := c.Cookie(Name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}
