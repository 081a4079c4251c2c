package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/masjidmap/auth-service/internal/api/sessioncookie"
	"github.com/masjidmap/auth-service/internal/core/domain"
)

type stubAuthService struct {
	registerFn     func(ctx context.Context, name string, identifier domain.Identifier, password string) (string, error)
	authenticateFn func(ctx context.Context, identifier domain.Identifier, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, name string, identifier domain.Identifier, password string) (string, error) {
	return s.registerFn(ctx, name, identifier, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, identifier domain.Identifier, password string) (string, error) {
	return s.authenticateFn(ctx, identifier, password)
}

type stubSessionService struct {
	createFn func(ctx context.Context, userID string) (string, error)
	deleteFn func(ctx context.Context, token string) error
	rotateFn func(ctx context.Context, userID string) (string, error)
	sweepFn  func(ctx context.Context) (int64, error)
}

func (s *stubSessionService) Create(ctx context.Context, userID string) (string, error) {
	return s.createFn(ctx, userID)
}

func (s *stubSessionService) FetchByToken(ctx context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessionService) RotateToken(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func (s *stubSessionService) ExtendExpiry(ctx context.Context, userID string) error {
	return nil
}

func (s *stubSessionService) RotateAndExtend(ctx context.Context, userID string) (string, error) {
	return s.rotateFn(ctx, userID)
}

func (s *stubSessionService) Delete(ctx context.Context, token string) error {
	return s.deleteFn(ctx, token)
}

func (s *stubSessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.sweepFn(ctx)
}

const testToken = "0123456789012345678901234567890123456789012" // 43 chars

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessioncookie.Name {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, name string, identifier domain.Identifier, password string) (string, error) {
			if name != "Alice" || identifier.Type != domain.IdentifierEmail || identifier.Value != "alice@example.com" {
				t.Fatalf("unexpected args: %s %s %s", name, identifier.Type, identifier.Value)
			}
			return "u1", nil
		},
	}
	sessions := &stubSessionService{
		createFn: func(ctx context.Context, userID string) (string, error) {
			if userID != "u1" {
				t.Fatalf("session for wrong user: %s", userID)
			}
			return testToken, nil
		},
	}
	handler := NewAuthHandler(auth, sessions)

	body := strings.NewReader(`{"name":"Alice","identifier":{"type":"email","value":"alice@example.com"},"password":"hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), testToken) {
		t.Fatalf("session token leaked into response body")
	}

	ck := sessionCookie(t, rec)
	if ck.Value != testToken {
		t.Fatalf("cookie carries wrong token: %s", ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure || ck.Path != "/" {
		t.Fatalf("cookie attributes wrong: %+v", ck)
	}
	if ck.MaxAge != 3600 {
		t.Fatalf("expected Max-Age 3600, got %d", ck.MaxAge)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.UserID != "u1" {
		t.Fatalf("unexpected user id: %s", resp.UserID)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, name string, identifier domain.Identifier, password string) (string, error) {
			return "", &domain.NotUniqueError{Field: "email"}
		},
	}
	sessions := &stubSessionService{
		createFn: func(ctx context.Context, userID string) (string, error) {
			t.Fatalf("no session should be created")
			return "", nil
		},
	}
	handler := NewAuthHandler(auth, sessions)

	body := strings.NewReader(`{"name":"Bob","identifier":{"type":"email","value":"bob@example.com"},"password":"hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Register(c)
	var notUnique *domain.NotUniqueError
	if !errors.As(err, &notUnique) {
		t.Fatalf("expected NotUniqueError, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, name string, identifier domain.Identifier, password string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	handler := NewAuthHandler(auth, &stubSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("not-json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{
		authenticateFn: func(ctx context.Context, identifier domain.Identifier, password string) (string, error) {
			if identifier.Type != domain.IdentifierMobile || identifier.Value != "9876543210" {
				t.Fatalf("unexpected identifier: %+v", identifier)
			}
			return "u2", nil
		},
	}
	sessions := &stubSessionService{
		createFn: func(ctx context.Context, userID string) (string, error) {
			return testToken, nil
		},
	}
	handler := NewAuthHandler(auth, sessions)

	body := strings.NewReader(`{"identifier":{"type":"mobile","value":"9876543210"},"password":"hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), testToken) {
		t.Fatalf("session token leaked into response body")
	}
	if ck := sessionCookie(t, rec); ck.Value != testToken {
		t.Fatalf("cookie carries wrong token: %s", ck.Value)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{
		authenticateFn: func(ctx context.Context, identifier domain.Identifier, password string) (string, error) {
			return "", domain.ErrPasswordMismatch
		},
	}
	handler := NewAuthHandler(auth, &stubSessionService{})

	body := strings.NewReader(`{"identifier":{"type":"email","value":"alice@example.com"},"password":"bad"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()
	deleted := ""
	sessions := &stubSessionService{
		deleteFn: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	handler := NewAuthHandler(&stubAuthService{}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: testToken})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != testToken {
		t.Fatalf("deleted wrong token: %s", deleted)
	}
	if ck := sessionCookie(t, rec); ck.MaxAge != -1 {
		t.Fatalf("cookie not cleared: %+v", ck)
	}
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	e := echo.New()
	sessions := &stubSessionService{
		deleteFn: func(ctx context.Context, token string) error {
			t.Fatalf("delete should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(&stubAuthService{}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_MalformedCookie(t *testing.T) {
	e := echo.New()
	sessions := &stubSessionService{
		deleteFn: func(ctx context.Context, token string) error {
			return domain.ErrInvalidSessionToken
		},
	}
	handler := NewAuthHandler(&stubAuthService{}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "garbage"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{}, &stubSessionService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &domain.User{ID: "u1", DisplayName: "Alice", Role: domain.RoleMember, PasswordHash: "secret-hash"})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked into response body")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["display_name"] != "Alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := echo.New()
	rotated := "z123456789012345678901234567890123456789012"
	sessions := &stubSessionService{
		rotateFn: func(ctx context.Context, userID string) (string, error) {
			if userID != "u1" {
				t.Fatalf("rotated wrong user: %s", userID)
			}
			return rotated, nil
		},
	}
	handler := NewAuthHandler(&stubAuthService{}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/auth/session/refresh", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: testToken})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &domain.User{ID: "u1", Role: domain.RoleMember})

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ck := sessionCookie(t, rec); ck.Value != rotated {
		t.Fatalf("cookie not rotated: %s", ck.Value)
	}
	if strings.Contains(rec.Body.String(), rotated) {
		t.Fatalf("session token leaked into response body")
	}
}
