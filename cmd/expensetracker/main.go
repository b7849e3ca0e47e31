package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
)

type backendOpener func(context.Context, *applog.Logger, *config.Config) (*backend.BackendResult, error)

func main() {
	cfg, logger := cli.LoadAndValidateConfig()

	if err := run(cfg, logger, cli.OpenBackend); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// run serves until a shutdown signal arrives. The backend is released on
// every return path.
func run(cfg *config.Config, logger *applog.Logger, open backendOpener) error {
	res, err := open(context.Background(), logger, cfg)
	if err != nil {
		return fmt.Errorf("initialize %s backend: %w", cfg.DataBackend, err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	srv, err := apphttp.NewServer(":"+cfg.Port, res.Service, apphttp.Options{
		Currency:           cfg.CurrencySymbol,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("build HTTP server: %w", err)
	}
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting expense tracker",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp_enabled", cfg.AMQPEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = srv.Shutdown(context.Background())
		return fmt.Errorf("listen: %w", err)
	}

	cli.WaitForShutdown(ctx, done)
	return nil
}
