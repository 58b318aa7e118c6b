package view

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"spesechart/internal/chart"
	"spesechart/internal/core"
)

func TestCells(t *testing.T) {
	e := core.Expense{ID: "1", Title: "Coffee", Amount: decimal.RequireFromString("3.5"), Category: "Food", Date: "2025-01-01"}
	want := []string{"Coffee", "₹3.5", "Food", "2025-01-01"}
	if got := Cells(e); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

type countingChart struct{ destroyed *int }

func (c countingChart) Destroy() { *c.destroyed++ }

type stubRenderer struct {
	destroyed int
	err       error
}

func (s *stubRenderer) Render(context.Context, chart.Data) (Chart, error) {
	if s.err != nil {
		return nil, s.err
	}
	return countingChart{destroyed: &s.destroyed}, nil
}

func TestMultiRenderer(t *testing.T) {
	a, b := &stubRenderer{}, &stubRenderer{}
	c, err := MultiRenderer{a, b}.Render(context.Background(), chart.Data{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	c.Destroy()
	if a.destroyed != 1 || b.destroyed != 1 {
		t.Fatalf("expected both charts destroyed, got %d %d", a.destroyed, b.destroyed)
	}
}

func TestMultiRendererRollsBackOnError(t *testing.T) {
	a, b := &stubRenderer{}, &stubRenderer{err: errors.New("broker down")}
	if _, err := (MultiRenderer{a, b}).Render(context.Background(), chart.Data{}); err == nil {
		t.Fatalf("expected error")
	}
	if a.destroyed != 1 {
		t.Fatalf("expected partial chart to be destroyed, got %d", a.destroyed)
	}
}

func TestBestEffortSwallowsFailures(t *testing.T) {
	var reported error
	primary := &stubRenderer{}
	secondary := BestEffort(&stubRenderer{err: errors.New("broker down")}, func(err error) { reported = err })

	c, err := MultiRenderer{primary, secondary}.Render(context.Background(), chart.Data{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if reported == nil {
		t.Fatalf("expected failure to be reported")
	}
	c.Destroy()
	if primary.destroyed != 1 {
		t.Fatalf("expected primary chart destroyed once, got %d", primary.destroyed)
	}
}

func TestBestEffortPassesThrough(t *testing.T) {
	inner := &stubRenderer{}
	c, err := BestEffort(inner, nil).Render(context.Background(), chart.Data{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	c.Destroy()
	if inner.destroyed != 1 {
		t.Fatalf("expected inner chart destroyed, got %d", inner.destroyed)
	}
}
