package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentMirror, os.Stdout)
	logger.Info("Starting fintrack-mirror", applog.FieldOperation, applog.OpStartup)

	cfg := cli.LoadAndValidateConfig()
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// The mirror reads the transactions file the CLI writes.
	transactions, err := storage.NewTransactionRepository(cfg.TransactionsDBPath)
	if err != nil {
		logger.Error("Failed to open transactions store", applog.FieldError, err, "path", cfg.TransactionsDBPath)
		os.Exit(1)
	}

	sheets, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("Failed to close AMQP client", applog.FieldError, err)
		}
		if err := transactions.Close(); err != nil {
			logger.Error("Failed to close transactions store", applog.FieldError, err)
		}
	})

	mirror := worker.NewMirrorWorker(transactions, sheets, logger, cfg.SyncBatchSize)

	// Catch up on anything recorded while the mirror was down.
	if n, err := mirror.Sync(ctx); err != nil {
		logger.Error("Startup sync failed", applog.FieldError, err)
	} else {
		logger.Info("Startup sync completed", applog.FieldCount, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEvents(gctx, mirror)
	})
	g.Go(func() error {
		return mirror.Run(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mirror stopped", applog.FieldError, err)
		amqpClient.Close()
		transactions.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}

func validate(cfg *config.Config) error {
	if cfg.DataBackend != config.BackendSQLite {
		return errors.New("fintrack-mirror requires DATA_BACKEND=sqlite")
	}
	if !cfg.AMQPEnabled() {
		return errors.New("fintrack-mirror requires AMQP_URL")
	}
	return cfg.ValidateSheets()
}
