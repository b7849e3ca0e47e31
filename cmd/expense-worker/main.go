package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	gsheet "expensetracker/internal/sheets/google"
	"expensetracker/internal/worker"
)

type backendOpener func(context.Context, *applog.Logger, *config.Config) (*backend.BackendResult, error)

func main() {
	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(applog.ComponentWorker)

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration invalid",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, logger, cli.OpenBackend)
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// run mirrors records until ctx is cancelled or a consumer fails. Every
// resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, open backendOpener) error {
	// The worker only reads records; it never publishes.
	storeCfg := *cfg
	storeCfg.AMQPURL = ""
	res, err := open(ctx, logger, &storeCfg)
	if err != nil {
		return fmt.Errorf("initialize %s backend: %w", cfg.DataBackend, err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	sheetsClient, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(res.Store, sheetsClient, cfg.CurrencySymbol)

	logger.Info("Starting expense-worker",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"queue", cfg.AMQPQueue,
		"interval", cfg.MirrorInterval.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, mirror.HandleEvent)
	})
	g.Go(func() error {
		return mirror.RunPeriodic(gctx, cfg.MirrorInterval)
	})
	return g.Wait()
}
