package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/services"
)

// LedgerAPI is the part of services.LedgerService the menu drives.
type LedgerAPI interface {
	RecordTransaction(ctx context.Context, t core.Transaction) (services.Receipt, error)
	SaveBudget(ctx context.Context, category string, limit core.Money) (services.BudgetReceipt, error)
	DeleteBudget(ctx context.Context, category string) (bool, error)
	Balance() core.Money
	CheckBudgets() []core.BudgetStatus
	Transactions() []core.Transaction
	CategoryTotals() []core.CategoryAmount
	BudgetLimits() []core.CategoryAmount
}

const menuText = `Choose an option:
1. Log Transaction
2. Add Budget
3. Show Balance
4. Check Budgets
5. Exit
6. List Transactions
7. Delete Budget
8. Export CSV
9. Category Report`

// DefaultExportFile is the file name offered by the export option.
const DefaultExportFile = "transactions.csv"

// Menu is the interactive text front end. Malformed input is reported and
// the menu is shown again.
type Menu struct {
	ledger    LedgerAPI
	in        io.Reader
	out       io.Writer
	exportDir string

	// Input is scanned in its own goroutine so a blocked read never keeps
	// Run from observing ctx. lines is closed at end of input, after which
	// scanErr holds the scanner error.
	startOnce sync.Once
	lines     chan string
	scanErr   error
}

func NewMenu(ledger LedgerAPI, in io.Reader, out io.Writer, exportDir string) *Menu {
	return &Menu{
		ledger:    ledger,
		in:        in,
		out:       out,
		exportDir: exportDir,
		lines:     make(chan string),
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Cancellation is observed while waiting for input too.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		m.println(menuText)
		line, ok := m.readLine(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return m.scanErr
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.println("Invalid option. Please enter a number.")
			continue
		}

		switch choice {
		case 1:
			m.logTransaction(ctx)
		case 2:
			m.addBudget(ctx)
		case 3:
			m.printf("Total Balance: %s\n", m.ledger.Balance())
		case 4:
			m.checkBudgets()
		case 5:
			return nil
		case 6:
			m.listTransactions()
		case 7:
			m.deleteBudget(ctx)
		case 8:
			m.exportCSV(ctx)
		case 9:
			if err := WriteReport(m.out, m.ledger.CategoryTotals(), m.ledger.BudgetLimits()); err != nil {
				m.printf("Error writing report: %v\n", err)
			}
		default:
			m.println("Invalid option. Please try again.")
		}
	}
	return ctx.Err()
}

func (m *Menu) logTransaction(ctx context.Context) {
	amountText, ok := m.prompt(ctx, "Enter amount:")
	if !ok {
		return
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		m.printf("Invalid amount %q.\n", amountText)
		return
	}

	dateText, ok := m.prompt(ctx, "Enter date (yyyy-mm-dd):")
	if !ok {
		return
	}
	date, err := core.ParseDate(dateText)
	if err != nil {
		m.printf("Invalid date %q, expected yyyy-mm-dd.\n", dateText)
		return
	}

	description, ok := m.prompt(ctx, "Enter description:")
	if !ok {
		return
	}
	category, ok := m.prompt(ctx, "Enter category:")
	if !ok {
		return
	}

	receipt, err := m.ledger.RecordTransaction(ctx, core.Transaction{
		Amount:      amount,
		Date:        date,
		Description: description,
		Category:    strings.TrimSpace(category),
	})
	switch {
	case errors.Is(err, core.ErrNegativeAmount):
		m.printf("A budget exists for %q; negative amounts cannot be logged against it.\n", category)
		return
	case err != nil:
		m.printf("Error adding transaction: %v\n", err)
		return
	}

	m.println("Transaction added successfully!")
	if receipt.OverLimit() {
		m.printf("Warning: budget exceeded for category: %s (spent %s of %s)\n",
			receipt.Budget.Category, receipt.Budget.Spent, receipt.Budget.Limit)
	}
	if !receipt.Persisted {
		m.println("Warning: the transaction could not be saved and will be lost on exit.")
	}
}

func (m *Menu) addBudget(ctx context.Context) {
	category, ok := m.prompt(ctx, "Enter category:")
	if !ok {
		return
	}
	limitText, ok := m.prompt(ctx, "Enter budget limit:")
	if !ok {
		return
	}
	limit, err := core.ParseLimit(limitText)
	if err != nil {
		m.printf("Invalid budget limit %q.\n", limitText)
		return
	}

	receipt, err := m.ledger.SaveBudget(ctx, category, limit)
	if err != nil {
		m.printf("Error adding budget: %v\n", err)
		return
	}
	if receipt.Created {
		m.printf("Budget added successfully for %s\n", receipt.Status.Category)
	} else {
		m.printf("Budget updated successfully for %s\n", receipt.Status.Category)
	}
	if !receipt.Persisted {
		m.println("Warning: the budget could not be saved and will be lost on exit.")
	}
}

func (m *Menu) checkBudgets() {
	statuses := m.ledger.CheckBudgets()
	if len(statuses) == 0 {
		m.println("No budgets defined.")
		return
	}
	for _, s := range statuses {
		if s.OverLimit {
			m.printf("Budget exceeded for category: %s (spent %s of %s)\n", s.Category, s.Spent, s.Limit)
		} else {
			m.printf("Budget for %s is within limit. (spent %s of %s)\n", s.Category, s.Spent, s.Limit)
		}
	}
}

func (m *Menu) listTransactions() {
	txs := m.ledger.Transactions()
	if len(txs) == 0 {
		m.println("No transactions recorded.")
		return
	}
	tw := tabwriter.NewWriter(m.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Date, t.Amount, t.Category, t.Description)
	}
	tw.Flush()
}

func (m *Menu) deleteBudget(ctx context.Context) {
	category, ok := m.prompt(ctx, "Enter category:")
	if !ok {
		return
	}
	removed, err := m.ledger.DeleteBudget(ctx, category)
	if err != nil {
		m.printf("Error deleting budget: %v\n", err)
		return
	}
	if !removed {
		m.printf("No budget found for category: %s\n", strings.TrimSpace(category))
		return
	}
	m.println("Budget deleted successfully!")
}

func (m *Menu) exportCSV(ctx context.Context) {
	def := filepath.Join(m.exportDir, DefaultExportFile)
	path, ok := m.prompt(ctx, fmt.Sprintf("Enter file path [%s]:", def))
	if !ok {
		return
	}
	if path == "" {
		path = def
	}

	err := export.ExportFile(path, m.ledger.Transactions())
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		m.println("No transactions to export.")
	case err != nil:
		m.printf("Error exporting transactions: %v\n", err)
	default:
		m.printf("Transactions exported successfully to %s\n", path)
	}
}

// WriteReport prints spending per category followed by the budget limits.
func WriteReport(w io.Writer, totals, limits []core.CategoryAmount) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL")
	for _, c := range totals {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Amount)
	}
	fmt.Fprintf(tw, "ALL\t%s\n", core.Sum(totals))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "BUDGET\tLIMIT")
	for _, c := range limits {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Amount)
	}
	return tw.Flush()
}

func (m *Menu) prompt(ctx context.Context, label string) (string, bool) {
	m.println(label)
	line, ok := m.readLine(ctx)
	return strings.TrimSpace(line), ok
}

// readLine returns the next input line. ok is false at end of input or
// when ctx is done.
func (m *Menu) readLine(ctx context.Context) (string, bool) {
	m.startOnce.Do(func() { go m.scan() })
	select {
	case line, ok := <-m.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (m *Menu) scan() {
	sc := bufio.NewScanner(m.in)
	for sc.Scan() {
		m.lines <- sc.Text()
	}
	m.scanErr = sc.Err()
	close(m.lines)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
