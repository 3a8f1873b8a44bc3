package core

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-09 ")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("unexpected date %s", d)
	}
	for _, in := range []string{"", "09/03/2025", "2025-13-01"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:      Money{Cents: -100},
		Date:        NewDate(2025, 1, 1),
		Description: "salary",
		Category:    "Income",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	long := good
	long.Description = strings.Repeat("x", 1000)
	if err := long.Validate(); err != nil {
		t.Fatalf("long description should be valid, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: 1}, Date: Date{Time: time.Time{}}, Category: "c"},
		{Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Category: " "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionSetters(t *testing.T) {
	var tx Transaction
	tx.SetAmount(Money{Cents: 250})
	tx.SetDate(NewDate(2024, 2, 29))
	tx.SetDescription("coffee")
	tx.SetCategory("Food")
	if tx.Amount.Cents != 250 || tx.Date.String() != "2024-02-29" || tx.Description != "coffee" || tx.Category != "Food" {
		t.Fatalf("unexpected transaction %v", tx)
	}
}

func TestNewBudget(t *testing.T) {
	if _, err := NewBudget("Food", Money{Cents: -1}); !errors.Is(err, ErrNegativeLimit) {
		t.Fatalf("expected ErrNegativeLimit, got %v", err)
	}
	if _, err := NewBudget("", Money{Cents: 1}); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	b, err := NewBudget("Food", Money{Cents: 0})
	if err != nil {
		t.Fatalf("zero limit should be allowed: %v", err)
	}
	if b.Spent().Cents != 0 {
		t.Fatalf("new budget should start with nothing spent")
	}
}

func TestBudgetAddSpending(t *testing.T) {
	b, _ := NewBudget("Food", Money{Cents: 10000})
	if err := b.AddSpending(Money{Cents: 2500}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := b.AddSpending(Money{Cents: -1}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if b.Spent().Cents != 2500 {
		t.Fatalf("rejected spending must not mutate, spent=%d", b.Spent().Cents)
	}
}

func TestBudgetAddSpendingOverflow(t *testing.T) {
	b, err := RestoreBudget("Food", Money{Cents: 100}, Money{Cents: math.MaxInt64 - 10})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := b.AddSpending(Money{Cents: 11}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if b.Spent().Cents != math.MaxInt64-10 {
		t.Fatalf("overflowing spending must not mutate, spent=%d", b.Spent().Cents)
	}
	if err := b.AddSpending(Money{Cents: 10}); err != nil {
		t.Fatalf("sum at the int64 boundary should fit: %v", err)
	}
}

func TestBudgetIsOverLimit(t *testing.T) {
	cases := []struct {
		limit, spent int64
		over         bool
	}{
		{10000, 9999, false},
		{10000, 10000, false},
		{10000, 10001, true},
		{0, 0, false},
		{0, 1, true},
	}
	for _, tc := range cases {
		b, err := RestoreBudget("c", Money{Cents: tc.limit}, Money{Cents: tc.spent})
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if got := b.IsOverLimit(); got != tc.over {
			t.Fatalf("limit=%d spent=%d: expected over=%v, got %v", tc.limit, tc.spent, tc.over, got)
		}
	}
}

func TestBudgetSetters(t *testing.T) {
	b, _ := NewBudget("Rent", Money{Cents: 500})
	if err := b.SetLimit(Money{Cents: -5}); !errors.Is(err, ErrNegativeLimit) {
		t.Fatalf("expected ErrNegativeLimit, got %v", err)
	}
	if err := b.SetSpent(Money{Cents: -5}); !errors.Is(err, ErrNegativeSpent) {
		t.Fatalf("expected ErrNegativeSpent, got %v", err)
	}
	if b.Limit().Cents != 500 || b.Spent().Cents != 0 {
		t.Fatalf("rejected setters must not mutate: %v", b)
	}
	if err := b.SetLimit(Money{Cents: 700}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetSpent(Money{Cents: 300}); err != nil {
		t.Fatal(err)
	}
	if b.Limit().Cents != 700 || b.Spent().Cents != 300 {
		t.Fatalf("unexpected budget %v", b)
	}
}
