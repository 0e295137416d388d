// @title           Restaurant Storage Tracker API
// @version         1.0
// @description     Inventory and activity log for restaurant storage locations.
// @host            localhost:8080
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/restaurant/storage-tracker/internal/api"
	"github.com/restaurant/storage-tracker/internal/api/handler"
	"github.com/restaurant/storage-tracker/internal/api/metrics"
	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/service"
	"github.com/restaurant/storage-tracker/internal/infrastructure/queue"
	"github.com/restaurant/storage-tracker/internal/pkg/config"
	"github.com/restaurant/storage-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storage-tracker",
	})

	ctx := context.Background()

	b, err := openBackends(ctx, cfg, logger.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	dispatcher := queue.NewDispatcher(b.kv, cfg.Storage.Debounce, logger.Component("dispatcher"))
	dispatcher.OnWrite(metrics.ObserveWrite)

	inventory := service.NewInventoryStore(b.kv, dispatcher, logger.Component("inventory"),
		service.WithDemoData(cfg.Storage.SeedDemoData),
	)
	inventory.Subscribe(func(s domain.Snapshot) {
		metrics.InventoryItems.Set(float64(len(s.Items)))
	})
	if err := inventory.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load inventory")
	}

	session := service.NewSessionService(b.creds, b.kv, cfg.JWTSecret, cfg.TokenTTL, logger.Component("session"))
	session.Init(ctx)

	e := api.NewRouter(api.Dependencies{
		Log:       logger.Component("http"),
		JWTSecret: cfg.JWTSecret,
		Session:   session,
		Inventory: inventory,
		Readiness: map[string]handler.Pinger{"storage": b.kv},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to flush pending writes")
	}
	if err := b.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}

	log.Info().Msg("server exited gracefully")
}
