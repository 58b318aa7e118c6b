package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Breakdown is the per-category aggregation in order of first occurrence.
type Breakdown []CategoryAmount

// AggregateByCategory sums amounts grouped by category. Categories keep the
// order in which they first appear in records.
func AggregateByCategory(records []Expense) Breakdown {
	index := make(map[string]int, len(records))
	out := make(Breakdown, 0)
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			index[r.Category] = len(out)
			out = append(out, CategoryAmount{Name: r.Category, Amount: r.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
	}
	return out
}

// Labels returns the category names.
func (b Breakdown) Labels() []string {
	labels := make([]string, len(b))
	for i, c := range b {
		labels[i] = c.Name
	}
	return labels
}

// Values returns the summed amounts as floats for chart renderers.
func (b Breakdown) Values() []float64 {
	values := make([]float64, len(b))
	for i, c := range b {
		values[i] = c.Amount.InexactFloat64()
	}
	return values
}

// Total returns the sum across all categories.
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b {
		total = total.Add(c.Amount)
	}
	return total
}

// Amount returns the total for a category and whether it is present.
func (b Breakdown) Amount(category string) (decimal.Decimal, bool) {
	for _, c := range b {
		if c.Name == category {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}
