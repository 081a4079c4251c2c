package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/masjidmap/auth-service/internal/api"
	"github.com/masjidmap/auth-service/internal/core/service"
	"github.com/masjidmap/auth-service/internal/infrastructure/config"
	mongodb "github.com/masjidmap/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/masjidmap/auth-service/internal/infrastructure/db/redis"
	"github.com/masjidmap/auth-service/internal/infrastructure/sweeper"
	"github.com/masjidmap/auth-service/internal/pkg/password"
	"github.com/masjidmap/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Auth Service API
// @version      1.0
// @description  Credential-based registration, login, and cookie-bound session lifecycle.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "auth-service"})
		bootLog.Fatal().Err(err).Msg("configuration load failed")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "auth-service",
		Pretty:  cfg.Env == "development",
	})

	// --- Persistence ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Username: cfg.Mongo.Username,
		Password: cfg.Mongo.Password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	sessionRepo := mongodb.NewSessionRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := sessionRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("session index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// --- Services ---
	authService := service.NewAuthService(userRepo, password.New(), log)
	sessionService := service.NewSessionService(sessionRepo, userRepo, log)

	// --- Background sweep ---
	sw := sweeper.New(sessionService, redisdb.NewSweepLock(rdb), log)
	if err := sw.Start(cfg.SweepSchedule); err != nil {
		log.Fatal().Err(err).Msg("sweeper start failed")
	}
	defer sw.Stop()

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, authService, sessionService, log)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
