// Package term renders the expense list, alerts and the category chart as
// plain text on a terminal.
package term

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"spesechart/internal/chart"
	"spesechart/internal/core"
	"spesechart/internal/view"
)

const (
	barWidth = 30
	barRune  = "█"
)

// Form holds the draft typed on the command line until the controller reads it.
type Form struct {
	mu    sync.Mutex
	draft core.Draft
}

var _ view.Form = (*Form)(nil)

func (f *Form) Set(d core.Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

func (f *Form) Read() core.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = core.Draft{}
}

// ParseDraft splits "title; amount; category". Missing parts stay empty so
// validation can reject them.
func ParseDraft(s string) core.Draft {
	parts := strings.SplitN(s, ";", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return core.Draft{Title: parts[0], Amount: parts[1], Category: parts[2]}.Normalize()
}

// View writes list changes, alerts and charts to out. It keeps the rows it
// printed so they can be listed again.
type View struct {
	mu   sync.Mutex
	out  io.Writer
	rows []row

	// last is the most recently printed chart; an identical redraw from
	// the poller is not printed again.
	last *chart.Data
}

type row struct {
	id    string
	cells []string
}

var (
	_ view.List          = (*View)(nil)
	_ view.Notifier      = (*View)(nil)
	_ view.ChartRenderer = (*View)(nil)
)

func New(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) Append(e core.Expense) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r := row{id: e.ID, cells: view.Cells(e)}
	v.rows = append(v.rows, r)
	fmt.Fprintf(v.out, "+ %s\n", formatRow(r))
}

func (v *View) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, r := range v.rows {
		if r.id == id {
			v.rows = append(v.rows[:i], v.rows[i+1:]...)
			fmt.Fprintf(v.out, "- %s\n", formatRow(r))
			return true
		}
	}
	return false
}

func (v *View) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "! %s\n", msg)
}

// PrintRows lists every row with its delete control.
func (v *View) PrintRows() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.rows) == 0 {
		fmt.Fprintln(v.out, "(no expenses)")
		return
	}
	for _, r := range v.rows {
		fmt.Fprintf(v.out, "  %s\n", formatRow(r))
	}
}

// PrintInsights writes one insight per line.
func (v *View) PrintInsights(in core.Insights) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, line := range in.Lines() {
		fmt.Fprintf(v.out, "  %s\n", line)
	}
}

// Render draws data as a horizontal bar chart unless it equals the last
// one printed. Terminal output cannot be taken back, so the returned chart
// only marks itself destroyed.
func (v *View) Render(_ context.Context, data chart.Data) (view.Chart, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last == nil || !reflect.DeepEqual(*v.last, data) {
		fmt.Fprint(v.out, Bars(data))
		v.last = &data
	}
	return &printed{}, nil
}

// Invalidate makes the next Render print even if the data is unchanged.
func (v *View) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = nil
}

type printed struct {
	mu        sync.Mutex
	destroyed bool
}

func (p *printed) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyed = true
}

// Bars formats data as a text bar chart scaled to the largest slice.
func Bars(data chart.Data) string {
	var b strings.Builder
	label := chart.DatasetLabel
	if len(data.Datasets) > 0 && data.Datasets[0].Label != "" {
		label = data.Datasets[0].Label
	}
	fmt.Fprintf(&b, "%s\n", label)

	values := data.Values()
	if len(data.Labels) == 0 || len(values) == 0 {
		b.WriteString("  (no data)\n")
		return b.String()
	}

	width, maxValue, total := 0, 0.0, 0.0
	for i, l := range data.Labels {
		if n := len([]rune(l)); n > width {
			width = n
		}
		if i < len(values) {
			total += values[i]
			if values[i] > maxValue {
				maxValue = values[i]
			}
		}
	}

	for i, l := range data.Labels {
		if i >= len(values) {
			break
		}
		v := values[i]
		n := 0
		if maxValue > 0 && v > 0 {
			n = int(v / maxValue * barWidth)
			if n == 0 {
				n = 1
			}
		}
		share := 0.0
		if total > 0 {
			share = v / total * 100
		}
		fmt.Fprintf(&b, "  %-*s %-*s %s (%.1f%%)\n",
			width, l,
			barWidth, strings.Repeat(barRune, n),
			core.FormatRupees(decimal.NewFromFloat(v)), share)
	}
	return b.String()
}

func formatRow(r row) string {
	return fmt.Sprintf("[%s] %s %s", r.id, strings.Join(r.cells, "  "), view.DeleteLabel)
}
