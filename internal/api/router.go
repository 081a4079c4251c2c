package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/masjidmap/auth-service/docs"
	"github.com/masjidmap/auth-service/internal/api/handler"
	"github.com/masjidmap/auth-service/internal/api/middleware"
	"github.com/masjidmap/auth-service/internal/core/domain"
	"github.com/masjidmap/auth-service/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, authService ports.AuthService, sessionService ports.SessionService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService, sessionService)
	adminHandler := handler.NewAdminHandler(sessionService)
	healthHandler := handler.NewHealthHandler(db, rdb)
	sessionMW := middleware.Session(sessionService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, sessionMW)
	e.POST("/auth/session/refresh", authHandler.Refresh, sessionMW)

	// --- Admin routes ---
	e.DELETE("/admin/sessions/expired", adminHandler.SweepExpired,
		sessionMW, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
