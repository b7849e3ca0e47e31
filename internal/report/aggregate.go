// Package report reduces expense records into per-category and per-month
// totals. Every function here is a pure in-memory computation and never fails.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Totals maps a grouping key to the sum of amounts. Keys are kept in the
// order they were first seen.
type Totals struct {
	keys []string
	sums map[string]decimal.Decimal
}

// NewTotals returns an empty Totals.
func NewTotals() *Totals {
	return &Totals{sums: make(map[string]decimal.Decimal)}
}

// Add accumulates amount under key.
func (t *Totals) Add(key string, amount decimal.Decimal) {
	if t.sums == nil {
		t.sums = make(map[string]decimal.Decimal)
	}
	cur, ok := t.sums[key]
	if !ok {
		t.keys = append(t.keys, key)
	}
	t.sums[key] = cur.Add(amount)
}

// Keys returns keys in insertion order of first occurrence.
func (t *Totals) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Get returns the sum for key and whether it exists.
func (t *Totals) Get(key string) (decimal.Decimal, bool) {
	v, ok := t.sums[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (t *Totals) Len() int {
	return len(t.keys)
}

// Sum returns the sum across all keys.
func (t *Totals) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, k := range t.keys {
		total = total.Add(t.sums[k])
	}
	return total
}

// Values returns the sums for keys, in the given order. Unknown keys yield zero.
func (t *Totals) Values(keys []string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(keys))
	for i, k := range keys {
		out[i] = t.sums[k]
	}
	return out
}

// ByCategory sums amounts per distinct category string.
func ByCategory(records []core.Expense) *Totals {
	t := NewTotals()
	for _, r := range records {
		t.Add(r.Category, r.Amount)
	}
	return t
}

// ByMonth sums amounts per "YYYY-MM" month key.
func ByMonth(records []core.Expense) *Totals {
	t := NewTotals()
	for _, r := range records {
		t.Add(r.Date.MonthKey(), r.Amount)
	}
	return t
}

// SortedMonths returns the month keys sorted lexicographically, which for
// zero-padded "YYYY-MM" keys is chronological order.
func SortedMonths(t *Totals) []string {
	months := t.Keys()
	sort.Strings(months)
	return months
}

// Total is the single aggregation path for grand totals. Summary and
// dashboard figures both go through it.
func Total(records []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Ranked returns the entries ordered by amount descending, ties by key.
func (t *Totals) Ranked() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, CategoryAmount{Name: k, Amount: t.sums[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Dashboard bundles everything the dashboard page needs.
type Dashboard struct {
	Categories  *Totals
	Months      []string
	MonthValues []decimal.Decimal
	Total       decimal.Decimal
	Count       int
}

// Build computes the dashboard aggregates from a snapshot of records.
func Build(records []core.Expense) Dashboard {
	monthly := ByMonth(records)
	months := SortedMonths(monthly)
	return Dashboard{
		Categories:  ByCategory(records),
		Months:      months,
		MonthValues: monthly.Values(months),
		Total:       Total(records),
		Count:       len(records),
	}
}

// IsEmpty reports whether there is nothing to chart.
func (d Dashboard) IsEmpty() bool {
	return d.Count == 0
}
