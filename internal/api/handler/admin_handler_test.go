package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAdminHandler_SweepExpired(t *testing.T) {
	e := echo.New()
	sessions := &stubSessionService{
		sweepFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}
	handler := NewAdminHandler(sessions)

	req := httptest.NewRequest(http.MethodDelete, "/admin/sessions/expired", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SweepExpired(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sweepResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", resp.Deleted)
	}
}

func TestAdminHandler_SweepExpired_Error(t *testing.T) {
	e := echo.New()
	wantErr := errors.New("store unavailable")
	sessions := &stubSessionService{
		sweepFn: func(ctx context.Context) (int64, error) {
			return 0, wantErr
		},
	}
	handler := NewAdminHandler(sessions)

	req := httptest.NewRequest(http.MethodDelete, "/admin/sessions/expired", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SweepExpired(c); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
