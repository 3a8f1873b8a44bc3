package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/core"
	applog "fintrack/internal/log"

	_ "modernc.org/sqlite"
)

// openSQLite opens dbPath, checks the connection and applies the schema's
// migrations.
func openSQLite(dbPath, schema string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// Store bundles the two independent SQLite stores. There is no foreign key
// between them: budgets match transactions by category string only.
type Store struct {
	Transactions *TransactionRepository
	Budgets      *BudgetRepository
}

func NewSQLiteStore(transactionsPath, budgetsPath string) (*Store, error) {
	txRepo, err := NewTransactionRepository(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("transactions store: %w", err)
	}
	budgetRepo, err := NewBudgetRepository(budgetsPath)
	if err != nil {
		txRepo.Close()
		return nil, fmt.Errorf("budgets store: %w", err)
	}
	return &Store{Transactions: txRepo, Budgets: budgetRepo}, nil
}

func (s *Store) Close() error {
	var errs []error
	if s.Transactions != nil {
		if err := s.Transactions.Close(); err != nil {
			errs = append(errs, fmt.Errorf("transactions: %w", err))
		}
	}
	if s.Budgets != nil {
		if err := s.Budgets.Close(); err != nil {
			errs = append(errs, fmt.Errorf("budgets: %w", err))
		}
	}
	return errors.Join(errs...)
}

type TransactionRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *applog.Logger
}

func NewTransactionRepository(dbPath string) (*TransactionRepository, error) {
	db, err := openSQLite(dbPath, TransactionsSchema)
	if err != nil {
		return nil, err
	}
	return &TransactionRepository{db: db, queries: New(db), logger: applog.ForComponent(applog.ComponentStorage)}, nil
}

func (r *TransactionRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction stores t and returns its row id.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Amount:      t.Amount.Float(),
		Date:        t.Date.String(),
		Description: sql.NullString{String: t.Description, Valid: t.Description != ""},
		Category:    t.Category,
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"amount", row.Amount,
		"date", row.Date,
		"category", row.Category)

	return row.ID, nil
}

// ListTransactions returns all transactions in insertion order. Rows with an
// unparseable date are skipped.
func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping transaction with invalid date",
				"id", row.ID,
				"date", row.Date,
				"error", err)
			continue
		}
		out = append(out, core.Transaction{
			Amount:      core.FromFloat(row.Amount),
			Date:        date,
			Description: row.Description.String,
			Category:    row.Category,
		})
	}
	return out, nil
}

// CategoryTotals sums transaction amounts per category.
func (r *TransactionRepository) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	sums, err := r.queries.GetCategorySums(ctx)
	if err != nil {
		return nil, fmt.Errorf("get category sums: %w", err)
	}
	out := make([]core.CategoryAmount, len(sums))
	for i, s := range sums {
		out[i] = core.CategoryAmount{Name: s.Category, Amount: core.FromFloat(s.Total)}
	}
	return out, nil
}

func (r *TransactionRepository) DeleteAllTransactions(ctx context.Context) (int64, error) {
	n, err := r.queries.DeleteAllTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	r.logger.InfoContext(ctx, "Transactions cleared", "count", n)
	return n, nil
}

type BudgetRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *applog.Logger
}

func NewBudgetRepository(dbPath string) (*BudgetRepository, error) {
	db, err := openSQLite(dbPath, BudgetsSchema)
	if err != nil {
		return nil, err
	}
	return &BudgetRepository{db: db, queries: New(db), logger: applog.ForComponent(applog.ComponentStorage)}, nil
}

func (r *BudgetRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertBudget reports whether a new row was written. An existing category
// is a constraint error.
func (r *BudgetRepository) InsertBudget(ctx context.Context, category string, limit core.Money) (bool, error) {
	n, err := r.queries.CreateBudget(ctx, CreateBudgetParams{Category: category, Limit: limit.Float()})
	if err != nil {
		return false, fmt.Errorf("create budget %s: %w", category, err)
	}
	return n > 0, nil
}

func (r *BudgetRepository) BudgetExists(ctx context.Context, category string) (bool, error) {
	exists, err := r.queries.BudgetExists(ctx, category)
	if err != nil {
		return false, fmt.Errorf("check budget %s: %w", category, err)
	}
	return exists, nil
}

func (r *BudgetRepository) GetBudget(ctx context.Context, category string) (*core.Budget, error) {
	row, err := r.queries.GetBudget(ctx, category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get budget %s: %w", category, err)
	}
	return toCoreBudget(row)
}

func (r *BudgetRepository) UpdateBudgetLimit(ctx context.Context, category string, limit core.Money) error {
	n, err := r.queries.UpdateBudgetLimit(ctx, UpdateBudgetLimitParams{Limit: limit.Float(), Category: category})
	if err != nil {
		return fmt.Errorf("update budget limit %s: %w", category, err)
	}
	if n == 0 {
		return core.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) UpdateBudgetSpent(ctx context.Context, category string, spent core.Money) error {
	n, err := r.queries.UpdateBudgetSpent(ctx, UpdateBudgetSpentParams{Spent: spent.Float(), Category: category})
	if err != nil {
		return fmt.Errorf("update budget spent %s: %w", category, err)
	}
	if n == 0 {
		return core.ErrBudgetNotFound
	}
	return nil
}

// DeleteBudget reports whether a row was removed.
func (r *BudgetRepository) DeleteBudget(ctx context.Context, category string) (bool, error) {
	n, err := r.queries.DeleteBudget(ctx, category)
	if err != nil {
		return false, fmt.Errorf("delete budget %s: %w", category, err)
	}
	return n > 0, nil
}

func (r *BudgetRepository) ListBudgets(ctx context.Context) ([]*core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]*core.Budget, 0, len(rows))
	for _, row := range rows {
		b, err := toCoreBudget(row)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping invalid budget row",
				"category", row.Category,
				"error", err)
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// BudgetLimits returns the configured limit per category.
func (r *BudgetRepository) BudgetLimits(ctx context.Context) ([]core.CategoryAmount, error) {
	rows, err := r.queries.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.CategoryAmount, len(rows))
	for i, row := range rows {
		out[i] = core.CategoryAmount{Name: row.Category, Amount: core.FromFloat(row.Limit)}
	}
	return out, nil
}

func toCoreBudget(row Budget) (*core.Budget, error) {
	return core.RestoreBudget(row.Category, core.FromFloat(row.Limit), core.FromFloat(row.Spent))
}
