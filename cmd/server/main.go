package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/donation/infra"
	"github.com/amirasaad/donation/infra/initializer"
	"github.com/amirasaad/donation/pkg/app"
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/service/reconcile"
	"github.com/amirasaad/donation/webapi"
	log "github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, db, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	if err := infra.MigrateUp(db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	a := app.New(deps, cfg)
	fiberApp := webapi.SetupApp(a)

	scheduler, err := scheduleReconcile(cfg.Reconcile, a.ReconcileService, logger)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
		"event_bus", cfg.EventBus.Driver,
	)
	err = fiberApp.Listen(addr)

	if closer, ok := deps.EventBus.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("Failed to close event bus", "error", cerr)
		}
	}
	return err
}

// scheduleReconcile returns nil when no schedule is configured.
func scheduleReconcile(cfg *config.Reconcile, svc *reconcile.Service, logger *slog.Logger) (*cron.Cron, error) {
	if cfg == nil || cfg.Schedule == "" {
		return nil, nil
	}
	c := reconcile.NewCron()
	if _, err := svc.Schedule(c, cfg.Schedule); err != nil {
		return nil, err
	}
	logger.Info("Reconciliation scheduled", "schedule", cfg.Schedule)
	return c, nil
}
