package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/masjidmap/auth-service/internal/api/metrics"
	"github.com/masjidmap/auth-service/internal/core/ports"
)

// AdminHandler exposes operational endpoints. Routes using it must sit behind
// the session middleware plus an admin RBAC check.
type AdminHandler struct {
	sessionService ports.SessionService
}

func NewAdminHandler(sessionService ports.SessionService) *AdminHandler {
	return &AdminHandler{sessionService: sessionService}
}

type sweepResponse struct {
	Deleted int64 `json:"deleted"`
}

// SweepExpired triggers an immediate expired-session sweep, outside the
// recurring schedule.
//
// @Summary      Delete all expired sessions
// @Tags         admin
// @Produce      json
// @Success      200  {object}  sweepResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/sessions/expired [delete]
func (h *AdminHandler) SweepExpired(c echo.Context) error {
	n, err := h.sessionService.SweepExpired(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.SessionsSweptTotal.Add(float64(n))
	return c.JSON(http.StatusOK, sweepResponse{Deleted: n})
}
