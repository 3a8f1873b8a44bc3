package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-granularity layout used for input, storage and export.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. Positive amounts count as spending
	// against a budget of the same category.
	Transaction struct {
		Amount      Money
		Date        Date
		Description string
		Category    string
	}

	// Budget tracks accumulated spending for one category against a limit.
	// Fields are unexported so the non-negative invariant can only be changed
	// through the validating setters.
	Budget struct {
		category string
		limit    Money
		spent    Money
	}

	// BudgetStatus is a point-in-time view of a budget.
	BudgetStatus struct {
		Category  string
		Limit     Money
		Spent     Money
		OverLimit bool
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrNegativeLimit  = errors.New("limit cannot be negative")
	ErrNegativeSpent  = errors.New("spent amount cannot be negative")
	ErrEmptyCategory  = errors.New("empty category")
	ErrBudgetNotFound = errors.New("budget not found")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (t *Transaction) SetAmount(m Money) { t.Amount = m }

func (t *Transaction) SetDate(d Date) { t.Date = d }

func (t *Transaction) SetDescription(desc string) { t.Description = desc }

func (t *Transaction) SetCategory(c string) { t.Category = c }

func (t Transaction) String() string {
	return fmt.Sprintf("Transaction{amount=%s, date=%s, description=%q, category=%q}",
		t.Amount, t.Date, t.Description, t.Category)
}

// NewBudget returns a budget with nothing spent yet.
func NewBudget(category string, limit Money) (*Budget, error) {
	if strings.TrimSpace(category) == "" {
		return nil, ErrEmptyCategory
	}
	if limit.IsNegative() {
		return nil, ErrNegativeLimit
	}
	return &Budget{category: category, limit: limit}, nil
}

// RestoreBudget rebuilds a budget from persisted limit and spent values.
func RestoreBudget(category string, limit, spent Money) (*Budget, error) {
	b, err := NewBudget(category, limit)
	if err != nil {
		return nil, err
	}
	if err := b.SetSpent(spent); err != nil {
		return nil, err
	}
	return b, nil
}

// AddSpending adds amount to spent. A negative amount, or one that would
// overflow spent, is rejected and the budget is left unchanged.
func (b *Budget) AddSpending(amount Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	spent, err := b.spent.CheckedAdd(amount)
	if err != nil {
		return err
	}
	b.spent = spent
	return nil
}

// IsOverLimit reports spent > limit; reaching the limit exactly is not over.
func (b *Budget) IsOverLimit() bool {
	return b.spent.Cents > b.limit.Cents
}

func (b *Budget) Category() string { return b.category }

func (b *Budget) Limit() Money { return b.limit }

func (b *Budget) Spent() Money { return b.spent }

func (b *Budget) SetLimit(limit Money) error {
	if limit.IsNegative() {
		return ErrNegativeLimit
	}
	b.limit = limit
	return nil
}

func (b *Budget) SetSpent(spent Money) error {
	if spent.IsNegative() {
		return ErrNegativeSpent
	}
	b.spent = spent
	return nil
}

// Status returns a snapshot of the budget.
func (b *Budget) Status() BudgetStatus {
	return BudgetStatus{
		Category:  b.category,
		Limit:     b.limit,
		Spent:     b.spent,
		OverLimit: b.IsOverLimit(),
	}
}

func (b *Budget) String() string {
	return fmt.Sprintf("Budget{category=%q, limit=%s, spent=%s}", b.category, b.limit, b.spent)
}
