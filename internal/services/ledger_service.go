package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// Receipt describes the outcome of recording a transaction. The ledger is
// always updated when RecordTransaction returns a nil error; Persisted is
// false when at least one storage write failed.
type Receipt struct {
	Transaction core.Transaction
	Persisted   bool
	Budget      *core.BudgetStatus
}

// OverLimit reports whether the transaction pushed its budget over the limit.
func (r Receipt) OverLimit() bool {
	return r.Budget != nil && r.Budget.OverLimit
}

type BudgetReceipt struct {
	Status    core.BudgetStatus
	Created   bool
	Persisted bool
}

// LedgerService orchestrates ledger operations across the in-memory ledger,
// the two stores and the optional event publisher.
type LedgerService struct {
	mu           sync.Mutex
	ledger       *core.Ledger
	transactions ports.TransactionStore
	budgets      ports.BudgetStore
	publisher    ports.EventPublisher
	logger       *applog.Logger
}

// NewLedgerService wires a service around an empty ledger. publisher may be nil.
func NewLedgerService(transactions ports.TransactionStore, budgets ports.BudgetStore, publisher ports.EventPublisher) *LedgerService {
	return &LedgerService{
		ledger:       core.NewLedger(),
		transactions: transactions,
		budgets:      budgets,
		publisher:    publisher,
		logger:       applog.ForComponent(applog.ComponentLedger),
	}
}

// Load reads both stores concurrently and replaces the ledger contents.
func (s *LedgerService) Load(ctx context.Context) error {
	var (
		txs     []core.Transaction
		budgets []*core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.ledger.Restore(txs, budgets)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger loaded",
		"transactions", len(txs),
		"budgets", len(budgets))
	return nil
}

// RecordTransaction adds t to the ledger, then persists it and the affected
// budget's spent. Only validation errors are returned.
func (s *LedgerService) RecordTransaction(ctx context.Context, t core.Transaction) (Receipt, error) {
	if err := t.Validate(); err != nil {
		return Receipt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	budget, err := s.ledger.AddTransaction(t)
	if err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{Transaction: t, Persisted: true}

	if _, err := s.transactions.InsertTransaction(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist transaction",
			"category", t.Category,
			"amount", t.Amount.String(),
			"error", err)
		receipt.Persisted = false
	}

	if budget != nil {
		status := budget.Status()
		receipt.Budget = &status
		if err := s.budgets.UpdateBudgetSpent(ctx, budget.Category(), budget.Spent()); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist budget spent",
				"category", budget.Category(),
				"spent", budget.Spent().String(),
				"error", err)
			receipt.Persisted = false
		}
	}

	s.publish(ctx, receipt)
	return receipt, nil
}

func (s *LedgerService) publish(ctx context.Context, r Receipt) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionRecorded(ctx, r.Transaction); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			"category", r.Transaction.Category,
			"error", err)
	}
	if r.OverLimit() {
		if err := s.publisher.PublishBudgetExceeded(ctx, *r.Budget); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish budget alert",
				"category", r.Budget.Category,
				"error", err)
		}
	}
}

// SaveBudget sets the limit for category. An existing budget keeps its
// spent; a new one starts at zero.
func (s *LedgerService) SaveBudget(ctx context.Context, category string, limit core.Money) (BudgetReceipt, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return BudgetReceipt{}, core.ErrEmptyCategory
	}
	if limit.IsNegative() {
		return BudgetReceipt{}, core.ErrNegativeLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var receipt BudgetReceipt
	b, err := s.ledger.UpdateBudgetLimit(category, limit)
	if errors.Is(err, core.ErrBudgetNotFound) {
		b, err = s.ledger.AddBudget(category, limit)
		receipt.Created = true
	}
	if err != nil {
		return BudgetReceipt{}, err
	}
	receipt.Status = b.Status()
	receipt.Persisted = s.persistBudget(ctx, category, limit)
	return receipt, nil
}

func (s *LedgerService) persistBudget(ctx context.Context, category string, limit core.Money) bool {
	exists, err := s.budgets.BudgetExists(ctx, category)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check budget", applog.FieldCategory, category, applog.FieldError, err)
		return false
	}
	if exists {
		err = s.budgets.UpdateBudgetLimit(ctx, category, limit)
	} else {
		_, err = s.budgets.InsertBudget(ctx, category, limit)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist budget",
			"category", category,
			"limit", limit.String(),
			"error", err)
		return false
	}
	return true
}

// DeleteBudget removes the budget for category. It reports whether the
// ledger held one; a storage failure is logged only.
func (s *LedgerService) DeleteBudget(ctx context.Context, category string) (bool, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return false, core.ErrEmptyCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.ledger.RemoveBudget(category)
	if _, err := s.budgets.DeleteBudget(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete budget", applog.FieldCategory, category, applog.FieldError, err)
	}
	return removed, nil
}

func (s *LedgerService) Balance() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TotalBalance()
}

func (s *LedgerService) CheckBudgets() []core.BudgetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CheckBudgets()
}

func (s *LedgerService) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Transactions()
}

func (s *LedgerService) CategoryTotals() []core.CategoryAmount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CategoryTotals()
}

func (s *LedgerService) BudgetLimits() []core.CategoryAmount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.BudgetLimits()
}

// Close closes the stores and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error
	for name, c := range map[string]any{
		"transactions": s.transactions,
		"budgets":      s.budgets,
		"publisher":    s.publisher,
	} {
		closer, ok := c.(io.Closer)
		if !ok || closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
