package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/masjidmap/auth-service/internal/api/metrics"
	"github.com/masjidmap/auth-service/internal/api/middleware"
	"github.com/masjidmap/auth-service/internal/api/sessioncookie"
	"github.com/masjidmap/auth-service/internal/core/domain"
	"github.com/masjidmap/auth-service/internal/core/ports"
)

// AuthHandler handles HTTP requests for registration, login, and the session
// lifecycle. The session token leaves the server only inside the session
// cookie, never in a response body.
type AuthHandler struct {
	authService    ports.AuthService
	sessionService ports.SessionService
}

func NewAuthHandler(authService ports.AuthService, sessionService ports.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

// --- Request / Response types ---

type identifierPayload struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type registerRequest struct {
	Name       string            `json:"name"`
	Identifier identifierPayload `json:"identifier"`
	Password   string            `json:"password"`
}

type loginRequest struct {
	Identifier identifierPayload `json:"identifier"`
	Password   string            `json:"password"`
}

type userResponse struct {
	UserID string `json:"user_id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account and opens its first session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	identifier := domain.Identifier{
		Type:  domain.IdentifierType(req.Identifier.Type),
		Value: req.Identifier.Value,
	}
	userID, err := h.authService.Register(c.Request().Context(), req.Name, identifier, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	if err := h.openSession(c, userID); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, userResponse{UserID: userID})
}

// Login verifies credentials and opens a new session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	identifier := domain.Identifier{
		Type:  domain.IdentifierType(req.Identifier.Type),
		Value: req.Identifier.Value,
	}
	userID, err := h.authService.Authenticate(c.Request().Context(), identifier, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	if err := h.openSession(c, userID); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, userResponse{UserID: userID})
}

// Logout deletes the current session, if any, and clears the cookie. Safe to
// call repeatedly.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if tok, ok := sessioncookie.Read(c); ok {
		err := h.sessionService.Delete(c.Request().Context(), tok)
		// A malformed token has no session to delete; logout still succeeds.
		if err != nil && !errors.Is(err, domain.ErrInvalidSessionToken) {
			return err
		}
	}
	sessioncookie.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
	}
	return c.JSON(http.StatusOK, user)
}

// Refresh rotates the session token and extends its expiry. The new token
// replaces the cookie.
//
// @Summary      Refresh the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /auth/session/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
	}

	tok, err := h.sessionService.RotateAndExtend(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if err := sessioncookie.Set(c, tok); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "session refreshed"})
}

func (h *AuthHandler) openSession(c echo.Context, userID string) error {
	tok, err := h.sessionService.Create(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	metrics.SessionsCreatedTotal.Inc()
	return sessioncookie.Set(c, tok)
}

func registerResult(err error) string {
	var verr *domain.ValidationError
	var notUnique *domain.NotUniqueError
	switch {
	case errors.As(err, &verr):
		return "invalid_data"
	case errors.As(err, &notUnique):
		return "conflict"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPasswordMismatch) {
		return "invalid_credentials"
	}
	return "error"
}
