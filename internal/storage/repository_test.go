package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "transactions.db"), filepath.Join(dir, "budgets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	want := []core.Transaction{
		{Amount: core.Money{Cents: 1234}, Date: core.NewDate(2024, 3, 15), Description: "Groceries, weekly", Category: "Food"},
		{Amount: core.Money{Cents: -250000}, Date: core.NewDate(2024, 3, 31), Description: "Salary", Category: "Income"},
		{Amount: core.Money{Cents: 1}, Date: core.NewDate(2024, 4, 1), Description: "", Category: "Misc"},
	}
	for _, tx := range want {
		id, err := store.Transactions.InsertTransaction(ctx, tx)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	got, err := store.Transactions.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Date.String(), got[i].Date.String())
	}
}

func TestListTransactionsSkipsInvalidDates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Transactions.InsertTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 500}, Date: core.NewDate(2024, 1, 2), Category: "Food",
	})
	require.NoError(t, err)

	_, err = store.Transactions.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, date, description, category) VALUES (1.0, 'not-a-date', 'bad', 'Food')`)
	require.NoError(t, err)

	got, err := store.Transactions.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(500), got[0].Amount.Cents)
}

func TestCategoryTotals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, tx := range []core.Transaction{
		{Amount: core.Money{Cents: 6000}, Date: core.NewDate(2024, 5, 1), Category: "Food"},
		{Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 5, 2), Category: "Food"},
		{Amount: core.Money{Cents: 1999}, Date: core.NewDate(2024, 5, 3), Category: "Books"},
	} {
		_, err := store.Transactions.InsertTransaction(ctx, tx)
		require.NoError(t, err)
	}

	totals, err := store.Transactions.CategoryTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Books", Amount: core.Money{Cents: 1999}},
		{Name: "Food", Amount: core.Money{Cents: 11000}},
	}, totals)

	n, err := store.Transactions.DeleteAllTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	totals, err = store.Transactions.CategoryTotals(ctx)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestBudgetLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Budgets

	exists, err := repo.BudgetExists(ctx, "Food")
	require.NoError(t, err)
	assert.False(t, exists)

	inserted, err := repo.InsertBudget(ctx, "Food", core.Money{Cents: 10000})
	require.NoError(t, err)
	assert.True(t, inserted)

	_, err = repo.InsertBudget(ctx, "Food", core.Money{Cents: 500})
	assert.Error(t, err, "duplicate category must violate the primary key")

	exists, err = repo.BudgetExists(ctx, "Food")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.UpdateBudgetSpent(ctx, "Food", core.Money{Cents: 11000}))
	require.NoError(t, repo.UpdateBudgetLimit(ctx, "Food", core.Money{Cents: 12000}))

	b, err := repo.GetBudget(ctx, "Food")
	require.NoError(t, err)
	assert.Equal(t, "Food", b.Category())
	assert.Equal(t, int64(12000), b.Limit().Cents)
	assert.Equal(t, int64(11000), b.Spent().Cents)
	assert.False(t, b.IsOverLimit())

	deleted, err := repo.DeleteBudget(ctx, "Food")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteBudget(ctx, "Food")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetBudget(ctx, "Food")
	assert.ErrorIs(t, err, core.ErrBudgetNotFound)
	assert.ErrorIs(t, repo.UpdateBudgetLimit(ctx, "Food", core.Money{Cents: 1}), core.ErrBudgetNotFound)
	assert.ErrorIs(t, repo.UpdateBudgetSpent(ctx, "Food", core.Money{Cents: 1}), core.ErrBudgetNotFound)
}

func TestListBudgetsAndLimits(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Budgets

	_, err := repo.InsertBudget(ctx, "Travel", core.Money{Cents: 50000})
	require.NoError(t, err)
	_, err = repo.InsertBudget(ctx, "Food", core.Money{Cents: 10050})
	require.NoError(t, err)

	budgets, err := repo.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "Food", budgets[0].Category())
	assert.Equal(t, "Travel", budgets[1].Category())
	assert.Zero(t, budgets[0].Spent().Cents)

	limits, err := repo.BudgetLimits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Food", Amount: core.Money{Cents: 10050}},
		{Name: "Travel", Amount: core.Money{Cents: 50000}},
	}, limits)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	txPath := filepath.Join(dir, "nested", "transactions.db")
	budgetPath := filepath.Join(dir, "nested", "budgets.db")

	store, err := NewSQLiteStore(txPath, budgetPath)
	require.NoError(t, err)
	_, err = store.Transactions.InsertTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 4200}, Date: core.NewDate(2023, 12, 31), Description: "Dinner", Category: "Food",
	})
	require.NoError(t, err)
	_, err = store.Budgets.InsertBudget(ctx, "Food", core.Money{Cents: 10000})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(txPath, budgetPath)
	require.NoError(t, err)
	defer store.Close()

	txs, err := store.Transactions.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Dinner", txs[0].Description)

	budgets, err := store.Budgets.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
}
