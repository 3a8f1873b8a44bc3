package google

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// toRow lays t out as date, description, amount, category.
func toRow(t core.Transaction) []any {
	return []any{t.Date.String(), t.Description, t.Amount.Float(), t.Category}
}

// parseRows converts a values matrix as returned by the Sheets API back into
// transactions, skipping rows that are not in toRow's layout.
func parseRows(values [][]interface{}) []core.Transaction {
	out := make([]core.Transaction, 0, len(values))
	for _, raw := range values {
		t, ok := parseRow(toStrings(raw))
		if !ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func parseRow(row []string) (core.Transaction, bool) {
	date, err := core.ParseDate(safeGet(row, 0))
	if err != nil {
		return core.Transaction{}, false
	}
	amount, err := core.ParseAmount(safeGet(row, 2))
	if err != nil {
		return core.Transaction{}, false
	}
	category := safeGet(row, 3)
	if category == "" {
		return core.Transaction{}, false
	}
	return core.Transaction{
		Amount:      amount,
		Date:        date,
		Description: safeGet(row, 1),
		Category:    category,
	}, true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
