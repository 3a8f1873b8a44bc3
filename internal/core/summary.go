package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// SortedAmounts turns a category map into a slice ordered by name.
func SortedAmounts(m map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for name, amount := range m {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sum totals the amounts.
func Sum(amounts []CategoryAmount) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a.Amount)
	}
	return total
}
