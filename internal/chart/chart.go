// Package chart builds the category doughnut dataset handed to renderers.
package chart

import (
	"spesechart/internal/core"
)

const (
	TypeDoughnut = "doughnut"
	DatasetLabel = "Expenses by Category"
	LegendColor  = "white"
	BorderColor  = "transparent"
)

// Palette is cycled by renderers when there are more slices than colours.
var Palette = []string{"#00ffff88", "#7f00ff88", "#ff00c888", "#00e0ff88", "#f7258588"}

// Dataset is one series of the chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
}

// Data is a full replacement dataset. Renderers never merge two Data values.
type Data struct {
	Type        string    `json:"type"`
	Labels      []string  `json:"labels"`
	Datasets    []Dataset `json:"datasets"`
	LegendColor string    `json:"legendColor"`
}

// FromBreakdown converts an aggregation into chart data.
func FromBreakdown(b core.Breakdown) Data {
	return Data{
		Type:   TypeDoughnut,
		Labels: b.Labels(),
		Datasets: []Dataset{{
			Label:           DatasetLabel,
			Data:            b.Values(),
			BackgroundColor: append([]string(nil), Palette...),
			BorderColor:     BorderColor,
		}},
		LegendColor: LegendColor,
	}
}

// Values returns the first dataset's values, or nil when there is none.
func (d Data) Values() []float64 {
	if len(d.Datasets) == 0 {
		return nil
	}
	return d.Datasets[0].Data
}

// Value returns the slice value for label.
func (d Data) Value(label string) (float64, bool) {
	values := d.Values()
	for i, l := range d.Labels {
		if l == label && i < len(values) {
			return values[i], true
		}
	}
	return 0, false
}

// Color returns the palette colour for slice i.
func Color(i int) string {
	return Palette[i%len(Palette)]
}

// Config renders the Chart.js constructor argument using only []any and
// map[string]any so it can be handed to syscall/js.ValueOf.
func (d Data) Config() map[string]any {
	labels := make([]any, len(d.Labels))
	for i, l := range d.Labels {
		labels[i] = l
	}
	datasets := make([]any, len(d.Datasets))
	for i, ds := range d.Datasets {
		values := make([]any, len(ds.Data))
		for j, v := range ds.Data {
			values[j] = v
		}
		colors := make([]any, len(ds.BackgroundColor))
		for j, c := range ds.BackgroundColor {
			colors[j] = c
		}
		datasets[i] = map[string]any{
			"label":           ds.Label,
			"data":            values,
			"backgroundColor": colors,
			"borderColor":     ds.BorderColor,
		}
	}
	return map[string]any{
		"type": d.Type,
		"data": map[string]any{
			"labels":   labels,
			"datasets": datasets,
		},
		"options": map[string]any{
			"plugins": map[string]any{
				"legend": map[string]any{
					"labels": map[string]any{"color": d.LegendColor},
				},
			},
		},
	}
}
