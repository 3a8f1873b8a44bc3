package memory

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/core"
)

// Store keeps transactions and budgets in process memory. It implements
// both storage ports.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	budgets      map[string]budgetRow
}

type budgetRow struct {
	limit core.Money
	spent core.Money
}

func New() *Store {
	return &Store{budgets: make(map[string]budgetRow)}
}

// NewFromFile seeds budgets from lines of the form "Category=limit".
// Blank lines and lines starting with '#' are ignored, as are malformed ones.
// A missing file yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	for _, line := range readLines(path) {
		category, limit, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		category = strings.TrimSpace(category)
		m, err := core.ParseLimit(limit)
		if err != nil || category == "" {
			continue
		}
		s.budgets[category] = budgetRow{limit: m}
	}
	return s
}

func (s *Store) InsertTransaction(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return int64(len(s.transactions)), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) InsertBudget(_ context.Context, category string, limit core.Money) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[category]; ok {
		return false, nil
	}
	s.budgets[category] = budgetRow{limit: limit}
	return true, nil
}

func (s *Store) BudgetExists(_ context.Context, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.budgets[category]
	return ok, nil
}

func (s *Store) UpdateBudgetLimit(_ context.Context, category string, limit core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.budgets[category]
	if !ok {
		return core.ErrBudgetNotFound
	}
	row.limit = limit
	s.budgets[category] = row
	return nil
}

func (s *Store) UpdateBudgetSpent(_ context.Context, category string, spent core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.budgets[category]
	if !ok {
		return core.ErrBudgetNotFound
	}
	row.spent = spent
	s.budgets[category] = row
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[category]; !ok {
		return false, nil
	}
	delete(s.budgets, category)
	return true, nil
}

// ListBudgets returns fresh Budget values ordered by category.
func (s *Store) ListBudgets(_ context.Context) ([]*core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*core.Budget, 0, len(s.budgets))
	for category, row := range s.budgets {
		b, err := core.RestoreBudget(category, row.limit, row.spent)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category() < out[j].Category() })
	return out, nil
}

func (s *Store) Close() error { return nil }

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
