package core

import (
	"sort"
	"strings"
)

// Ledger is the in-memory account: transactions in insertion order and at
// most one budget per category. It is not safe for concurrent use.
type Ledger struct {
	transactions []Transaction
	budgets      map[string]*Budget
}

func NewLedger() *Ledger {
	return &Ledger{budgets: make(map[string]*Budget)}
}

// Restore replaces the ledger contents with persisted state. Budgets are
// taken as stored, so their spent already includes the transactions.
func (l *Ledger) Restore(transactions []Transaction, budgets []*Budget) {
	l.transactions = append([]Transaction(nil), transactions...)
	l.budgets = make(map[string]*Budget, len(budgets))
	for _, b := range budgets {
		l.budgets[b.Category()] = b
	}
}

// AddTransaction appends t and, when a budget exists for its category, adds
// t.Amount to that budget's spent. A negative amount against a budgeted
// category is rejected before anything is appended: the transaction is not
// recorded and spent is unchanged. It returns the affected budget, or nil
// when the category has none.
func (l *Ledger) AddTransaction(t Transaction) (*Budget, error) {
	b, ok := l.budgets[t.Category]
	if ok {
		if err := b.AddSpending(t.Amount); err != nil {
			return nil, err
		}
	}
	l.transactions = append(l.transactions, t)
	if !ok {
		return nil, nil
	}
	return b, nil
}

// TotalBalance is the signed sum of all transaction amounts.
func (l *Ledger) TotalBalance() Money {
	var total Money
	for _, t := range l.transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// AddBudget adds a budget for category, replacing any existing one.
func (l *Ledger) AddBudget(category string, limit Money) (*Budget, error) {
	b, err := NewBudget(category, limit)
	if err != nil {
		return nil, err
	}
	l.budgets[category] = b
	return b, nil
}

// UpdateBudgetLimit changes the limit of an existing budget and keeps its spent.
func (l *Ledger) UpdateBudgetLimit(category string, limit Money) (*Budget, error) {
	b, ok := l.budgets[category]
	if !ok {
		return nil, ErrBudgetNotFound
	}
	if err := b.SetLimit(limit); err != nil {
		return nil, err
	}
	return b, nil
}

func (l *Ledger) RemoveBudget(category string) bool {
	if _, ok := l.budgets[category]; !ok {
		return false
	}
	delete(l.budgets, category)
	return true
}

func (l *Ledger) Budget(category string) (*Budget, bool) {
	b, ok := l.budgets[category]
	return b, ok
}

// Budgets returns the budgets ordered by category.
func (l *Ledger) Budgets() []*Budget {
	out := make([]*Budget, 0, len(l.budgets))
	for _, b := range l.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].Category(), out[j].Category()) < 0
	})
	return out
}

func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.transactions...)
}

// CheckBudgets evaluates every budget against its limit.
func (l *Ledger) CheckBudgets() []BudgetStatus {
	budgets := l.Budgets()
	out := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		out[i] = b.Status()
	}
	return out
}

// CategoryTotals sums transaction amounts per category.
func (l *Ledger) CategoryTotals() []CategoryAmount {
	totals := make(map[string]Money)
	for _, t := range l.transactions {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return SortedAmounts(totals)
}

// BudgetLimits returns the configured limit per category.
func (l *Ledger) BudgetLimits() []CategoryAmount {
	limits := make(map[string]Money, len(l.budgets))
	for category, b := range l.budgets {
		limits[category] = b.Limit()
	}
	return SortedAmounts(limits)
}
