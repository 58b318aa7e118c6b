// Package memory is a headless view: it keeps form fields, list rows,
// alerts and chart instances in memory so they can be inspected.
package memory

import (
	"context"
	"sync"

	"spesechart/internal/chart"
	"spesechart/internal/core"
	"spesechart/internal/view"
)

// Row is one rendered list entry.
type Row struct {
	ID    string
	Cells []string
}

type View struct {
	mu     sync.Mutex
	draft  core.Draft
	rows   []Row
	alerts []string

	nextChart int
	charts    map[int]chart.Data
	renders   int
}

var (
	_ view.Form          = (*View)(nil)
	_ view.List          = (*View)(nil)
	_ view.Notifier      = (*View)(nil)
	_ view.ChartRenderer = (*View)(nil)
)

func New() *View {
	return &View{charts: make(map[int]chart.Data)}
}

// Type sets the input fields as a user would.
func (v *View) Type(title, amount, category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = core.Draft{Title: title, Amount: amount, Category: category}
}

func (v *View) Read() core.Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = core.Draft{}
}

func (v *View) Append(e core.Expense) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = append(v.rows, Row{ID: e.ID, Cells: view.Cells(e)})
}

func (v *View) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, r := range v.rows {
		if r.ID == id {
			v.rows = append(v.rows[:i], v.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (v *View) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, msg)
}

func (v *View) Render(_ context.Context, data chart.Data) (view.Chart, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextChart++
	v.renders++
	id := v.nextChart
	v.charts[id] = data
	return &instance{v: v, id: id}, nil
}

// Rows returns a copy of the list rows.
func (v *View) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Row(nil), v.rows...)
}

// Alerts returns every message shown so far.
func (v *View) Alerts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.alerts...)
}

// LiveCharts counts chart instances that were rendered and not destroyed.
func (v *View) LiveCharts() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.charts)
}

// Renders counts every Render call.
func (v *View) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Current returns the data of the most recent live chart.
func (v *View) Current() (chart.Data, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	best := 0
	for id := range v.charts {
		if id > best {
			best = id
		}
	}
	d, ok := v.charts[best]
	return d, ok
}

type instance struct {
	v  *View
	id int
}

func (i *instance) Destroy() {
	i.v.mu.Lock()
	defer i.v.mu.Unlock()
	delete(i.v.charts, i.id)
}
