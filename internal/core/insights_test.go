package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeEmpty(t *testing.T) {
	lines := Summarize(nil).Lines()
	if len(lines) != 1 || lines[0] != "No transactions recorded yet." {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestSummarize(t *testing.T) {
	records := []Expense{
		{Title: "Coffee", Category: "Food", Amount: decimal.RequireFromString("3.5")},
		{Title: "Lunch", Category: "Food", Amount: decimal.RequireFromString("12")},
		{Title: "Flight", Category: "Travel", Amount: decimal.RequireFromString("200"), Date: "2025-01-02 10:00:00"},
		{Title: "Dinner", Category: "Food", Amount: decimal.RequireFromString("20")},
		{Title: "Power", Category: "Bills", Amount: decimal.RequireFromString("40")},
		{Title: "Water", Category: "Utilities", Amount: decimal.RequireFromString("4.5")},
	}
	in := Summarize(records)

	if in.Count != 6 {
		t.Fatalf("expected count 6, got %d", in.Count)
	}
	if !in.Total.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("expected total 280, got %s", in.Total)
	}
	if in.Largest == nil || in.Largest.Title != "Flight" {
		t.Fatalf("expected Flight as largest, got %+v", in.Largest)
	}
	if len(in.TopCategories) != 3 || in.TopCategories[0].Name != "Food" || in.TopCategories[0].Count != 3 {
		t.Fatalf("unexpected top categories: %+v", in.TopCategories)
	}
	if in.TopCategories[1].Name != "Travel" || in.TopCategories[2].Name != "Bills" {
		t.Fatalf("ties should keep first occurrence order: %+v", in.TopCategories)
	}
	if len(in.Recurring) != 1 || in.Recurring[0] != "Food" {
		t.Fatalf("expected Food recurring, got %v", in.Recurring)
	}

	text := strings.Join(in.Lines(), "\n")
	for _, want := range []string{
		"Total expense: ₹280 across 6 transactions.",
		"Food (3 tx)",
		"Largest single expense: ₹200 for Flight in Travel on 2025-01-02 10:00:00.",
		"Average expense per transaction: ₹46.67.",
		"Recurring expense categories detected: Food.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func TestSummarizeMonthTrend(t *testing.T) {
	rec := func(amount, date string) Expense {
		return Expense{Title: "x", Category: "Food", Amount: decimal.RequireFromString(amount), Date: date}
	}

	tests := []struct {
		name    string
		records []Expense
		want    string
	}{
		{
			name: "jump",
			records: []Expense{
				rec("100", "2025-01-10 09:00:00"),
				rec("150", "2025-02-03 09:00:00"),
				rec("50", "2025-02-20 18:30:00"),
			},
			want: "Spending jumped by 100% in 2025-02 vs 2025-01.",
		},
		{
			name: "drop",
			records: []Expense{
				rec("40", "2025-03-01"),
				rec("200", "2025-02-14 12:00:00"),
			},
			want: "Spending dropped by 80% in 2025-03 vs 2025-02.",
		},
		{
			name: "appeared",
			records: []Expense{
				rec("0", "2024-12-31 23:59:59"),
				rec("25", "2025-01-01 00:00:00"),
			},
			want: "Spending appeared in 2025-01 (no spending recorded in 2024-12).",
		},
		{
			name: "compares only the two latest months",
			records: []Expense{
				rec("1", "2024-11-05 10:00:00"),
				rec("100", "2024-12-05 10:00:00"),
				rec("110", "2025-01-05 10:00:00"),
			},
			want: "",
		},
		{
			name: "unparseable dates are skipped",
			records: []Expense{
				rec("100", "yesterday"),
				rec("10", "2025-01-05 10:00:00"),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Summarize(tt.records).Lines()
			var got string
			for _, l := range lines {
				if strings.HasPrefix(l, "Spending ") {
					got = l
				}
			}
			if got != tt.want {
				t.Fatalf("trend line = %q, want %q (lines %v)", got, tt.want, lines)
			}
		})
	}
}

func TestMonthTrendChange(t *testing.T) {
	tr := MonthTrend{Month: "2025-02", Previous: "2025-01", Total: decimal.NewFromInt(90), PrevTotal: decimal.NewFromInt(60)}
	pct, ok := tr.Change()
	if !ok || !pct.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("change = %s, %v", pct, ok)
	}
	if in := Summarize([]Expense{{Amount: decimal.NewFromInt(1), Date: "2025-01-01"}}); in.Trend != nil {
		t.Fatalf("single month should have no trend, got %+v", in.Trend)
	}
}
