//go:build js && wasm

// Package dom binds the controller to the expense page: the three inputs,
// the add button, the expense list and the chart canvas.
package dom

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"spesechart/internal/chart"
	"spesechart/internal/core"
	"spesechart/internal/view"
)

// Element ids and classes the page must provide.
const (
	IDTitle       = "title"
	IDAmount      = "amount"
	IDCategory    = "category"
	IDAddButton   = "add-btn"
	IDExpenseList = "expense-list"
	IDChart       = "chart"

	ClassDeleteButton = "delete-btn"
)

var ErrChartLibraryMissing = errors.New("Chart.js is not loaded")

// Page holds the elements looked up once at startup.
type Page struct {
	doc      js.Value
	title    js.Value
	amount   js.Value
	category js.Value
	addBtn   js.Value
	list     js.Value
	canvas   js.Value
}

var (
	_ view.Form          = (*Page)(nil)
	_ view.List          = (*Page)(nil)
	_ view.Notifier      = (*Page)(nil)
	_ view.ChartRenderer = (*Page)(nil)
)

// Lookup finds every element the controller needs.
func Lookup() (*Page, error) {
	doc := js.Global().Get("document")
	p := &Page{doc: doc}
	for id, dst := range map[string]*js.Value{
		IDTitle:       &p.title,
		IDAmount:      &p.amount,
		IDCategory:    &p.category,
		IDAddButton:   &p.addBtn,
		IDExpenseList: &p.list,
		IDChart:       &p.canvas,
	} {
		el := doc.Call("getElementById", id)
		if el.IsNull() || el.IsUndefined() {
			return nil, fmt.Errorf("element #%s not found", id)
		}
		*dst = el
	}
	return p, nil
}

func (p *Page) Read() core.Draft {
	return core.Draft{
		Title:    p.title.Get("value").String(),
		Amount:   p.amount.Get("value").String(),
		Category: p.category.Get("value").String(),
	}
}

func (p *Page) Clear() {
	for _, el := range []js.Value{p.title, p.amount, p.category} {
		el.Set("value", "")
	}
}

// Append adds a row. Text goes through textContent so record fields are
// never parsed as markup.
func (p *Page) Append(e core.Expense) {
	li := p.doc.Call("createElement", "li")
	for _, cell := range view.Cells(e) {
		span := p.doc.Call("createElement", "span")
		span.Set("textContent", cell)
		li.Call("appendChild", span)
	}
	btn := p.doc.Call("createElement", "button")
	btn.Set("className", ClassDeleteButton)
	btn.Set("type", "button")
	btn.Get("dataset").Set("id", e.ID)
	btn.Set("textContent", view.DeleteLabel)
	li.Call("appendChild", btn)
	p.list.Call("appendChild", li)
}

func (p *Page) Remove(id string) bool {
	buttons := p.list.Call("getElementsByClassName", ClassDeleteButton)
	for i := 0; i < buttons.Length(); i++ {
		btn := buttons.Index(i)
		if btn.Get("dataset").Get("id").String() == id {
			btn.Get("parentElement").Call("remove")
			return true
		}
	}
	return false
}

func (p *Page) Alert(msg string) {
	js.Global().Call("alert", msg)
}

// Render creates a Chart.js instance on the canvas.
func (p *Page) Render(_ context.Context, data chart.Data) (view.Chart, error) {
	ctor := js.Global().Get("Chart")
	if ctor.IsUndefined() {
		return nil, ErrChartLibraryMissing
	}
	instance := ctor.New(p.canvas, js.ValueOf(data.Config()))
	return &jsChart{v: instance}, nil
}

type jsChart struct {
	v js.Value
}

func (c *jsChart) Destroy() {
	c.v.Call("destroy")
}
