package core

import (
	"errors"
	"testing"
)

func tx(cents int64, category string) Transaction {
	return Transaction{
		Amount:      Money{Cents: cents},
		Date:        NewDate(2025, 5, 1),
		Description: "test",
		Category:    category,
	}
}

func TestLedgerTotalBalance(t *testing.T) {
	l := NewLedger()
	amounts := []int64{12000, -3000, 450, 0, -99}
	var want int64
	for _, a := range amounts {
		if _, err := l.AddTransaction(tx(a, "Misc")); err != nil {
			t.Fatalf("add %d: %v", a, err)
		}
		want += a
	}
	if got := l.TotalBalance().Cents; got != want {
		t.Fatalf("expected balance %d, got %d", want, got)
	}
	if len(l.Transactions()) != len(amounts) {
		t.Fatalf("expected %d transactions, got %d", len(amounts), len(l.Transactions()))
	}
}

func TestLedgerBudgetGoesOverLimit(t *testing.T) {
	l := NewLedger()
	if _, err := l.AddBudget("Groceries", Money{Cents: 10000}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddTransaction(tx(6000, "Groceries")); err != nil {
		t.Fatal(err)
	}
	b, err := l.AddTransaction(tx(5000, "Groceries"))
	if err != nil {
		t.Fatal(err)
	}
	if b == nil || b.Spent().Cents != 11000 || !b.IsOverLimit() {
		t.Fatalf("expected spent=11000 and over limit, got %v", b)
	}
}

func TestLedgerNonMatchingCategoryLeavesBudgets(t *testing.T) {
	l := NewLedger()
	l.AddBudget("Groceries", Money{Cents: 10000})
	l.AddBudget("Rent", Money{Cents: 90000})

	b, err := l.AddTransaction(tx(2500, "Fun"))
	if err != nil || b != nil {
		t.Fatalf("expected no budget affected, got %v (err=%v)", b, err)
	}
	for _, s := range l.CheckBudgets() {
		if s.Spent.Cents != 0 {
			t.Fatalf("budget %s changed: %v", s.Category, s)
		}
	}
}

func TestLedgerRejectsNegativeAmountForBudgetedCategory(t *testing.T) {
	l := NewLedger()
	l.AddBudget("Groceries", Money{Cents: 10000})
	l.AddTransaction(tx(3000, "Groceries"))

	if _, err := l.AddTransaction(tx(-500, "Groceries")); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if len(l.Transactions()) != 1 {
		t.Fatalf("rejected transaction must not be recorded")
	}
	b, _ := l.Budget("Groceries")
	if b.Spent().Cents != 3000 {
		t.Fatalf("rejected transaction must not change spent, got %d", b.Spent().Cents)
	}

	// Unbudgeted categories accept income.
	if _, err := l.AddTransaction(tx(-500, "Salary")); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestLedgerAddBudgetReplaces(t *testing.T) {
	l := NewLedger()
	l.AddBudget("Fun", Money{Cents: 1000})
	l.AddTransaction(tx(800, "Fun"))
	l.AddBudget("Fun", Money{Cents: 2000})

	b, ok := l.Budget("Fun")
	if !ok || b.Limit().Cents != 2000 || b.Spent().Cents != 0 {
		t.Fatalf("expected replaced budget, got %v", b)
	}
}

func TestLedgerUpdateBudgetLimitKeepsSpent(t *testing.T) {
	l := NewLedger()
	l.AddBudget("Fun", Money{Cents: 1000})
	l.AddTransaction(tx(800, "Fun"))

	b, err := l.UpdateBudgetLimit("Fun", Money{Cents: 500})
	if err != nil {
		t.Fatal(err)
	}
	if b.Spent().Cents != 800 || !b.IsOverLimit() {
		t.Fatalf("expected spent kept and over limit, got %v", b)
	}
	if _, err := l.UpdateBudgetLimit("Missing", Money{Cents: 1}); !errors.Is(err, ErrBudgetNotFound) {
		t.Fatalf("expected ErrBudgetNotFound, got %v", err)
	}
}

func TestLedgerRemoveBudget(t *testing.T) {
	l := NewLedger()
	l.AddBudget("Fun", Money{Cents: 1000})
	if !l.RemoveBudget("Fun") {
		t.Fatal("expected removal")
	}
	if l.RemoveBudget("Fun") {
		t.Fatal("second removal should report false")
	}
}

func TestLedgerCheckBudgetsSorted(t *testing.T) {
	l := NewLedger()
	l.AddBudget("b", Money{Cents: 100})
	l.AddBudget("a", Money{Cents: 100})
	l.AddBudget("c", Money{Cents: 100})
	l.AddTransaction(tx(101, "c"))

	got := l.CheckBudgets()
	if len(got) != 3 || got[0].Category != "a" || got[2].Category != "c" {
		t.Fatalf("unexpected order: %v", got)
	}
	if got[0].OverLimit || !got[2].OverLimit {
		t.Fatalf("unexpected over-limit flags: %v", got)
	}
}

func TestLedgerRestoreDoesNotReapplySpending(t *testing.T) {
	b, _ := RestoreBudget("Food", Money{Cents: 1000}, Money{Cents: 700})
	l := NewLedger()
	l.Restore([]Transaction{tx(700, "Food")}, []*Budget{b})

	got, _ := l.Budget("Food")
	if got.Spent().Cents != 700 {
		t.Fatalf("expected spent 700, got %d", got.Spent().Cents)
	}
	if l.TotalBalance().Cents != 700 {
		t.Fatalf("expected balance 700, got %d", l.TotalBalance().Cents)
	}
}

func TestLedgerAggregates(t *testing.T) {
	l := NewLedger()
	l.AddBudget("Food", Money{Cents: 5000})
	l.AddBudget("Rent", Money{Cents: 80000})
	l.AddTransaction(tx(1200, "Food"))
	l.AddTransaction(tx(800, "Food"))
	l.AddTransaction(tx(-300000, "Salary"))

	totals := l.CategoryTotals()
	if len(totals) != 2 || totals[0].Name != "Food" || totals[0].Amount.Cents != 2000 || totals[1].Amount.Cents != -300000 {
		t.Fatalf("unexpected totals %v", totals)
	}
	limits := l.BudgetLimits()
	if len(limits) != 2 || Sum(limits).Cents != 85000 {
		t.Fatalf("unexpected limits %v", limits)
	}
}
