// Package export writes ledger transactions to files and external targets.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

var ErrNothingToExport = errors.New("no transactions to export")

// Record returns the CSV fields for t: amount, date, description, category.
func Record(t core.Transaction) []string {
	return []string{t.Amount.String(), t.Date.String(), t.Description, t.Category}
}

// WriteCSV writes one line per transaction without a header.
func WriteCSV(w io.Writer, transactions []core.Transaction) error {
	cw := csv.NewWriter(w)
	for _, t := range transactions {
		if err := cw.Write(Record(t)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportFile writes transactions to path, creating parent directories as
// needed. The file is written to a temporary name first and renamed into
// place, so a failed export leaves any previous file intact.
func ExportFile(path string, transactions []core.Transaction) error {
	if len(transactions) == 0 {
		return ErrNothingToExport
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, transactions); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename export file: %w", err)
	}

	applog.ForComponent(applog.ComponentExport).Info("Transactions exported", "path", path, applog.FieldCount, len(transactions))
	return nil
}

// ToTarget sends transactions to an external exporter such as a spreadsheet.
func ToTarget(ctx context.Context, target ports.TransactionExporter, transactions []core.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, ErrNothingToExport
	}
	n, err := target.AppendTransactions(ctx, transactions)
	if err != nil {
		return n, fmt.Errorf("append transactions: %w", err)
	}
	applog.ForComponent(applog.ComponentExport).InfoContext(ctx, "Transactions exported to remote target", applog.FieldCount, n)
	return n, nil
}
