package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	topCategoryCount   = 3
	recurringThreshold = 3

	// DateLayout is the record date format written by the store.
	DateLayout  = "2006-01-02 15:04:05"
	monthLayout = "2006-01"

	// trendThreshold is the month-over-month change, in percent, worth reporting.
	trendThreshold = 20
)

var dateLayouts = []string{DateLayout, time.DateOnly, time.RFC3339}

// MonthTrend compares spending in the two most recent months that have records.
type MonthTrend struct {
	Month     string
	Previous  string
	Total     decimal.Decimal
	PrevTotal decimal.Decimal
}

// Change is the percentage change from Previous to Month. ok is false when
// the previous month total is not positive.
func (t MonthTrend) Change() (pct decimal.Decimal, ok bool) {
	if !t.PrevTotal.IsPositive() {
		return decimal.Zero, false
	}
	return t.Total.Sub(t.PrevTotal).Div(t.PrevTotal).Mul(decimal.NewFromInt(100)), true
}

// Line describes the trend, or returns "" when the change is too small to mention.
func (t MonthTrend) Line() string {
	pct, ok := t.Change()
	if !ok {
		if t.Total.IsPositive() {
			return fmt.Sprintf("Spending appeared in %s (no spending recorded in %s).", t.Month, t.Previous)
		}
		return ""
	}
	limit := decimal.NewFromInt(trendThreshold)
	switch {
	case pct.GreaterThan(limit):
		return fmt.Sprintf("Spending jumped by %s%% in %s vs %s.", pct.Round(0).String(), t.Month, t.Previous)
	case pct.LessThan(limit.Neg()):
		return fmt.Sprintf("Spending dropped by %s%% in %s vs %s.", pct.Abs().Round(0).String(), t.Month, t.Previous)
	}
	return ""
}

// parseDate accepts the store layout plus the date-only and RFC 3339 forms.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthlyTrend groups records by calendar month. Records without a parseable
// date are skipped. It returns nil when fewer than two months have records.
func monthlyTrend(records []Expense) *MonthTrend {
	byMonth := make(map[string]decimal.Decimal)
	for _, r := range records {
		d, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		m := d.Format(monthLayout)
		byMonth[m] = byMonth[m].Add(r.Amount)
	}
	if len(byMonth) < 2 {
		return nil
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	last, prev := months[len(months)-1], months[len(months)-2]
	return &MonthTrend{Month: last, Previous: prev, Total: byMonth[last], PrevTotal: byMonth[prev]}
}

// CategoryCount is the number of records filed under a category.
type CategoryCount struct {
	Name  string
	Count int
}

// Insights is a compact textual summary of a set of records.
type Insights struct {
	Count         int
	Total         decimal.Decimal
	Average       decimal.Decimal
	Largest       *Expense
	TopCategories []CategoryCount
	Recurring     []string
	Trend         *MonthTrend
}

// Summarize computes insights over records. It never mutates records.
func Summarize(records []Expense) Insights {
	in := Insights{Count: len(records), Total: decimal.Zero, Average: decimal.Zero}
	if len(records) == 0 {
		return in
	}

	counts := make(map[string]int)
	var order []string
	for i := range records {
		r := records[i]
		in.Total = in.Total.Add(r.Amount)
		if in.Largest == nil || r.Amount.GreaterThan(in.Largest.Amount) {
			in.Largest = &records[i]
		}
		if _, ok := counts[r.Category]; !ok {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}
	in.Average = in.Total.Div(decimal.NewFromInt(int64(len(records))))

	ranked := make([]CategoryCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, CategoryCount{Name: name, Count: counts[name]})
		if counts[name] >= recurringThreshold {
			in.Recurring = append(in.Recurring, name)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	in.TopCategories = ranked
	in.Trend = monthlyTrend(records)
	return in
}

// Lines renders the insights as human readable sentences.
func (in Insights) Lines() []string {
	if in.Count == 0 {
		return []string{"No transactions recorded yet."}
	}

	lines := []string{
		fmt.Sprintf("Total expense: %s across %d transactions.", FormatRupees(in.Total), in.Count),
	}

	if len(in.TopCategories) > 0 {
		parts := make([]string, len(in.TopCategories))
		for i, c := range in.TopCategories {
			parts[i] = fmt.Sprintf("%s (%d tx)", c.Name, c.Count)
		}
		lines = append(lines, "Top expense categories: "+strings.Join(parts, ", ")+".")
	}

	if in.Largest != nil {
		l := in.Largest
		line := fmt.Sprintf("Largest single expense: %s for %s in %s", FormatRupees(l.Amount), l.Title, l.Category)
		if l.Date != "" {
			line += " on " + l.Date
		}
		lines = append(lines, line+".")
	}

	lines = append(lines, fmt.Sprintf("Average expense per transaction: %s%s.", CurrencySymbol, in.Average.StringFixed(2)))

	if len(in.Recurring) > 0 {
		lines = append(lines, fmt.Sprintf("Recurring expense categories detected: %s. Review subscriptions and regular bills.", strings.Join(in.Recurring, ", ")))
	}

	if in.Trend != nil {
		if line := in.Trend.Line(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
