// Package controller keeps the expense list and the category chart in step
// with the remote store.
//
// The list is edited optimistically: a created record is appended from the
// store's echo and a deleted row is removed without waiting for the store.
// The chart is always rebuilt from a full refetch, so after a failed delete
// the two surfaces may disagree until the row is removed by other means.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"spesechart/internal/chart"
	"spesechart/internal/core"
	applog "spesechart/internal/log"
	"spesechart/internal/metrics"
	"spesechart/internal/store"
	"spesechart/internal/view"
)

// DefaultPollInterval is the chart refresh period.
const DefaultPollInterval = 5 * time.Second

// CreateFailedMessage prefixes the alert shown when the store refuses a create.
const CreateFailedMessage = "Could not add expense"

// ErrClosed is returned by operations invoked after Close.
var ErrClosed = errors.New("controller closed")

type Controller struct {
	store    store.Store
	form     view.Form
	list     view.List
	notifier view.Notifier
	renderer view.ChartRenderer

	logger     *applog.Logger
	structured *applog.StructuredLogger
	metrics    *metrics.Metrics

	silentCreateFailures bool

	// chartMu serialises destroy-then-create of the single chart instance.
	chartMu sync.Mutex
	chart   view.Chart
	closed  bool

	pollMu sync.Mutex
	poller *poller
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *applog.Logger) Option {
	return func(c *Controller) { c.logger = l.WithComponent(applog.ComponentController) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithSilentCreateFailures keeps the form untouched and shows nothing when the
// store refuses a create.
func WithSilentCreateFailures() Option {
	return func(c *Controller) { c.silentCreateFailures = true }
}

func New(s store.Store, form view.Form, list view.List, notifier view.Notifier, renderer view.ChartRenderer, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		form:     form,
		list:     list,
		notifier: notifier,
		renderer: renderer,
		logger:   applog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.structured = applog.NewStructuredLogger(c.logger)
	return c
}

// Submit reads the form and creates an expense. Blank fields abort with an
// alert before any store call. On success the echoed record is appended,
// the form is cleared and the chart refreshed.
func (c *Controller) Submit(ctx context.Context) error {
	draft := c.form.Read().Normalize()
	if err := draft.Validate(); err != nil {
		c.metrics.Submit(metrics.ResultInvalid)
		c.notifier.Alert(view.FillAllFieldsMessage)
		c.logger.DebugContext(ctx, "Expense draft rejected",
			applog.FieldOperation, applog.OpValidate,
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err.Error())
		return err
	}

	e, err := c.store.Create(ctx, draft)
	if err != nil {
		errorType := applog.ErrorTypeNetwork
		result := metrics.ResultError
		if errors.Is(err, store.ErrCreateRejected) {
			errorType = applog.ErrorTypeRejected
			result = metrics.ResultRejected
		}
		c.metrics.Submit(result)
		c.structured.LogError(ctx, "Failed to create expense", err, errorType, applog.OpCreate,
			applog.NewFields().WithExpense("", draft.Title, draft.Amount, draft.Category))
		if !c.silentCreateFailures {
			c.notifier.Alert(fmt.Sprintf("%s: %v", CreateFailedMessage, err))
		}
		return fmt.Errorf("create expense: %w", err)
	}

	c.list.Append(e)
	c.form.Clear()
	c.metrics.Submit(metrics.ResultOK)
	c.structured.LogExpenseCreated(ctx, e.ID, e.Title, e.Amount.String(), e.Category)

	_ = c.RefreshChart(ctx)
	return nil
}

// Delete asks the store to delete id, then removes the row and refreshes the
// chart whatever the store answered. The store error, if any, is returned.
func (c *Controller) Delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, id)
	if err != nil {
		c.metrics.Delete(metrics.ResultError)
		c.structured.LogError(ctx, "Failed to delete expense", err, applog.ErrorTypeNetwork, applog.OpDelete,
			applog.NewFields().WithExpense(id, "", "", ""))
	} else {
		c.metrics.Delete(metrics.ResultOK)
	}

	if !c.list.Remove(id) {
		c.logger.WarnContext(ctx, "No list row for deleted expense", applog.FieldExpenseID, id)
	}

	_ = c.RefreshChart(ctx)

	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

// Populate appends every stored record to the list. It is meant for the
// initial render only; afterwards the list is edited optimistically.
func (c *Controller) Populate(ctx context.Context) error {
	records, err := c.store.List(ctx)
	if err != nil {
		c.structured.LogError(ctx, "Failed to load expenses", err, applog.ErrorTypeNetwork, applog.OpList, nil)
		return fmt.Errorf("list expenses: %w", err)
	}
	for _, e := range records {
		c.list.Append(e)
	}
	c.logger.DebugContext(ctx, "Expense list populated", applog.FieldRecords, len(records))
	return nil
}

// RefreshChart refetches every record, aggregates by category and replaces
// the chart. The previous chart is destroyed before the new one is drawn so
// at most one instance is ever alive. A failed fetch leaves the previous
// chart in place.
func (c *Controller) RefreshChart(ctx context.Context) error {
	start := time.Now()

	records, err := c.store.List(ctx)
	if err != nil {
		c.metrics.Refresh(metrics.ResultError, time.Since(start))
		if !errors.Is(err, context.Canceled) {
			c.structured.LogError(ctx, "Failed to fetch chart data", err, applog.ErrorTypeNetwork, applog.OpRefresh, nil)
		}
		return fmt.Errorf("list expenses: %w", err)
	}
	breakdown := core.AggregateByCategory(records)
	data := chart.FromBreakdown(breakdown)

	c.chartMu.Lock()
	defer c.chartMu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.destroyChartLocked()

	ch, err := c.renderer.Render(ctx, data)
	if err != nil {
		c.metrics.Refresh(metrics.ResultError, time.Since(start))
		c.structured.LogError(ctx, "Failed to render chart", err, applog.ErrorTypeRender, applog.OpRender, nil)
		return fmt.Errorf("render chart: %w", err)
	}
	c.chart = ch
	c.metrics.ChartCreated()
	c.metrics.Refresh(metrics.ResultOK, time.Since(start))

	c.logger.DebugContext(ctx, "Chart refreshed",
		applog.FieldRecords, len(records),
		applog.FieldCategories, len(breakdown))
	return nil
}

func (c *Controller) destroyChartLocked() {
	if c.chart == nil {
		return
	}
	c.chart.Destroy()
	c.chart = nil
	c.metrics.ChartDestroyed()
}

// Close stops polling and destroys the chart. It is safe to call twice.
func (c *Controller) Close() {
	c.pollMu.Lock()
	p := c.poller
	c.pollMu.Unlock()
	if p != nil {
		p.stop()
	}

	c.chartMu.Lock()
	defer c.chartMu.Unlock()
	c.closed = true
	c.destroyChartLocked()
}
