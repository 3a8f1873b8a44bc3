package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/amqp"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// MirrorWorker keeps a spreadsheet in step with the local transactions
// store. Sheet rows correspond to local transactions by position, so
// catching up means appending every local transaction past the last
// mirrored row. Events only trigger a catch-up; replaying one is harmless.
type MirrorWorker struct {
	source    ports.TransactionStore
	target    ports.TransactionMirror
	logger    *applog.Logger
	batchSize int

	mu       sync.Mutex
	mirrored int
	known    bool
}

var _ amqp.EventHandler = (*MirrorWorker)(nil)

func NewMirrorWorker(source ports.TransactionStore, target ports.TransactionMirror, logger *applog.Logger, batchSize int) *MirrorWorker {
	if batchSize < 1 {
		batchSize = 100
	}
	return &MirrorWorker{
		source:    source,
		target:    target,
		logger:    logger.WithComponent(applog.ComponentMirror),
		batchSize: batchSize,
	}
}

// HandleTransactionRecorded validates the event and catches the sheet up.
// A malformed event is dropped; a sync failure is returned for redelivery.
func (w *MirrorWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	t, err := msg.Transaction()
	if err != nil {
		return fmt.Errorf("%w: %v", amqp.ErrPermanent, err)
	}

	fields := applog.NewFields().WithMessageID(msg.MessageID).WithTransaction(t)
	w.logger.DebugContext(ctx, "Transaction event received", fields.ToSlice()...)

	if _, err := w.Sync(ctx); err != nil {
		return fmt.Errorf("sync after %s: %w", msg.MessageID, err)
	}
	return nil
}

// HandleBudgetExceeded logs the alert.
func (w *MirrorWorker) HandleBudgetExceeded(ctx context.Context, msg *amqp.BudgetExceededMessage) error {
	w.logger.WarnContext(ctx, "Budget exceeded",
		applog.FieldOperation, applog.OpAlert,
		applog.FieldMessageID, msg.MessageID,
		applog.FieldCategory, msg.Category,
		applog.FieldLimit, msg.Limit,
		applog.FieldSpent, msg.Spent)
	return nil
}

// Sync appends local transactions missing from the sheet and returns how
// many rows were written. The sheet is read once; later calls trust the
// cached row count until Refresh.
func (w *MirrorWorker) Sync(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.known {
		rows, err := w.target.ListTransactions(ctx)
		if err != nil {
			return 0, fmt.Errorf("read mirrored rows: %w", err)
		}
		w.mirrored = len(rows)
		w.known = true
	}

	local, err := w.source.ListTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list local transactions: %w", err)
	}
	if w.mirrored > len(local) {
		w.logger.WarnContext(ctx, "Sheet has more rows than the local store, nothing to mirror",
			"sheet_rows", w.mirrored,
			"local", len(local))
		return 0, nil
	}

	pending := local[w.mirrored:]
	written := 0
	for start := 0; start < len(pending); start += w.batchSize {
		end := min(start+w.batchSize, len(pending))
		n, err := w.target.AppendTransactions(ctx, pending[start:end])
		w.mirrored += n
		written += n
		if err != nil {
			// The sheet may be partially written; re-read it next time.
			w.known = false
			return written, fmt.Errorf("append batch: %w", err)
		}
	}

	if written > 0 {
		w.logger.InfoContext(ctx, "Transactions mirrored",
			applog.FieldOperation, applog.OpAppend,
			applog.FieldCount, written,
			applog.FieldSheetsRows, w.mirrored)
	}
	return written, nil
}

// Refresh forgets the cached row count and syncs.
func (w *MirrorWorker) Refresh(ctx context.Context) (int, error) {
	w.mu.Lock()
	w.known = false
	w.mu.Unlock()
	return w.Sync(ctx)
}

// Run refreshes the mirror every interval until ctx is cancelled. It covers
// events lost while the broker or the worker was down.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Refresh(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic mirror refresh failed",
					applog.FieldOperation, applog.OpBackfill,
					applog.FieldError, err)
			}
		}
	}
}
