package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/export"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	gsheet "fintrack/internal/sheets/google"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	// Logs go to stderr so they do not interleave with the menu.
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentCLI, os.Stderr)
	cfg := cli.LoadAndValidateConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	svc := services.NewLedgerService(result.Backend.Transactions, result.Backend.Budgets, result.Backend.Publisher)
	cleanup := func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Cleanup failed", applog.FieldError, err)
		}
	}

	if err := svc.Load(ctx); err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err)
		cleanup()
		os.Exit(1)
	}

	err := run(ctx, os.Args[1:], cfg, svc)
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.Config, svc *services.LedgerService) error {
	if len(args) == 0 {
		err := cli.NewMenu(svc, os.Stdin, os.Stdout, cfg.ExportDir).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	switch args[0] {
	case "export":
		return runExport(ctx, args[1:], cfg, svc)
	case "report":
		return cli.WriteReport(os.Stdout, svc.CategoryTotals(), svc.BudgetLimits())
	case "balance":
		fmt.Println(svc.Balance())
		return nil
	default:
		return fmt.Errorf("unknown command %q (want export, report or balance)", args[0])
	}
}

func runExport(ctx context.Context, args []string, cfg *config.Config, svc *services.LedgerService) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", filepath.Join(cfg.ExportDir, cli.DefaultExportFile), "CSV file to write")
	target := fs.String("target", "csv", "export target: csv or sheets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *target {
	case "csv":
		if err := export.ExportFile(*out, svc.Transactions()); err != nil {
			return err
		}
		fmt.Printf("Transactions exported successfully to %s\n", *out)
		return nil
	case "sheets":
		if err := cfg.ValidateSheets(); err != nil {
			return err
		}
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			return err
		}
		n, err := export.ToTarget(ctx, client, svc.Transactions())
		if err != nil {
			return err
		}
		fmt.Printf("%d transactions appended to sheet %s\n", n, cfg.GoogleSheetName)
		return nil
	default:
		return fmt.Errorf("unknown export target %q (want csv or sheets)", *target)
	}
}
