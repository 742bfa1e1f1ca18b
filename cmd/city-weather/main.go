package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/city-weather/internal/api/http"
	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/logger"
	"github.com/i474232898/city-weather/internal/scheduler"
	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/telemetry"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer := telemetry.InitTracer(ctx, cfg.OTelEnabled, cfg.OTelEndpoint, "city-weather", zlog)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider, err := providers.New(cfg, httpClient, zlog)
	if err != nil {
		zlog.Fatal("failed to build weather provider", zap.Error(err))
	}

	mode, err := session.ParseMode(cfg.FetchMode)
	if err != nil {
		zlog.Fatal("invalid fetch mode", zap.Error(err))
	}

	sessions := store.NewSessionStore(cfg.SessionTTL, zlog)
	bus := session.NewBus(zlog)
	service := session.NewService(sessions, provider, bus, mode, zlog)

	// Auto-mode sessions fetch through the dispatcher.
	dispatcher := session.NewDispatcher(bus, sessions, cfg.FetchTimeout, zlog)
	if err := dispatcher.Run(ctx); err != nil {
		zlog.Fatal("failed to start dispatcher", zap.Error(err))
	}

	// Sweeper that drops expired sessions.
	sched := scheduler.New(sessions, cfg.SweepInterval, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := httpapi.NewApp(zlog)
	app.Use(fiberlogger.New())
	httpapi.RegisterRoutes(app, service, bus)

	go func() {
		zlog.Info("listening",
			zap.String("port", cfg.Port),
			zap.String("provider", provider.Name()),
			zap.String("mode", string(mode)),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	dispatcher.Wait()
	if err := bus.Close(); err != nil {
		zlog.Error("error closing event bus", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zlog.Error("error flushing traces", zap.Error(err))
	}
}
