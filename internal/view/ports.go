// Package view declares the surfaces the controller mutates: the input form,
// the expense list, user notifications and the chart.
package view

import (
	"context"

	"spesechart/internal/chart"
	"spesechart/internal/core"
)

// FillAllFieldsMessage is shown when a required field is blank.
const FillAllFieldsMessage = "Fill all fields!"

// DeleteLabel is the caption of the per-row delete control.
const DeleteLabel = "✖"

type (
	// Form exposes the three input fields.
	Form interface {
		Read() core.Draft
		Clear()
	}

	// List is the rendered expense list.
	List interface {
		Append(e core.Expense)
		// Remove drops the row for id and reports whether one existed.
		Remove(id string) bool
	}

	// Notifier surfaces a blocking message to the user.
	Notifier interface {
		Alert(msg string)
	}

	// Chart is a live chart instance owned by the caller that created it.
	Chart interface {
		Destroy()
	}

	// ChartRenderer draws a full replacement dataset as a new chart instance.
	ChartRenderer interface {
		Render(ctx context.Context, data chart.Data) (Chart, error)
	}
)

// Cells returns the display columns of a list row: title, amount, category, date.
func Cells(e core.Expense) []string {
	return []string{e.Title, core.FormatRupees(e.Amount), e.Category, e.Date}
}

// MultiRenderer draws the same data on several renderers and destroys all of
// the resulting charts together.
type MultiRenderer []ChartRenderer

func (m MultiRenderer) Render(ctx context.Context, data chart.Data) (Chart, error) {
	charts := make(multiChart, 0, len(m))
	for _, r := range m {
		c, err := r.Render(ctx, data)
		if err != nil {
			charts.Destroy()
			return nil, err
		}
		charts = append(charts, c)
	}
	return charts, nil
}

type multiChart []Chart

func (m multiChart) Destroy() {
	for _, c := range m {
		c.Destroy()
	}
}

// BestEffort wraps a secondary renderer whose failures must not block the
// primary one. A failed draw is reported to onErr and yields a no-op chart.
func BestEffort(r ChartRenderer, onErr func(error)) ChartRenderer {
	return bestEffort{r: r, onErr: onErr}
}

type bestEffort struct {
	r     ChartRenderer
	onErr func(error)
}

func (b bestEffort) Render(ctx context.Context, data chart.Data) (Chart, error) {
	c, err := b.r.Render(ctx, data)
	if err != nil {
		if b.onErr != nil {
			b.onErr(err)
		}
		return noopChart{}, nil
	}
	return c, nil
}

type noopChart struct{}

func (noopChart) Destroy() {}
