package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spesechart/internal/chart"
	applog "spesechart/internal/log"
	"spesechart/internal/view"
)

// Publisher is the subset of Client used by ChartRenderer.
type Publisher interface {
	PublishChartSnapshot(ctx context.Context, msg *ChartSnapshotMessage) error
}

// ChartRenderer broadcasts every chart redraw so out-of-process dashboards
// can mirror it. Destroying the returned chart publishes a destroy message.
type ChartRenderer struct {
	publisher Publisher
	logger    *applog.Logger
}

var _ view.ChartRenderer = (*ChartRenderer)(nil)

func NewChartRenderer(p Publisher, logger *applog.Logger) *ChartRenderer {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ChartRenderer{publisher: p, logger: logger.WithComponent(applog.ComponentChart)}
}

func (r *ChartRenderer) Render(ctx context.Context, data chart.Data) (view.Chart, error) {
	id := uuid.NewString()
	if err := r.publisher.PublishChartSnapshot(ctx, NewRenderMessage(id, data)); err != nil {
		return nil, fmt.Errorf("publish chart %s: %w", id, err)
	}
	return &remoteChart{id: id, r: r}, nil
}

type remoteChart struct {
	id string
	r  *ChartRenderer
}

// Destroy cannot fail from the caller's point of view; publish errors are logged.
func (c *remoteChart) Destroy() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := c.r.publisher.PublishChartSnapshot(ctx, NewDestroyMessage(c.id)); err != nil {
		c.r.logger.Warn("Failed to publish chart destroy", "chart_id", c.id, applog.FieldError, err.Error())
	}
}

// Mirror applies snapshot messages to a local renderer, keeping at most one
// mirrored chart alive. It is the consumer side of ChartRenderer.
type Mirror struct {
	renderer  view.ChartRenderer
	currentID string
	current   view.Chart
	timeout   time.Duration
}

func NewMirror(renderer view.ChartRenderer) *Mirror {
	return &Mirror{renderer: renderer, timeout: publishTimeout}
}

// Handle is suitable as a ConsumeChartSnapshots handler.
func (m *Mirror) Handle(msg *ChartSnapshotMessage) error {
	switch msg.Kind {
	case KindRender:
		if msg.Chart == nil {
			return fmt.Errorf("render snapshot %s without chart data", msg.ChartID)
		}
		m.release()
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		ch, err := m.renderer.Render(ctx, *msg.Chart)
		if err != nil {
			return err
		}
		m.current, m.currentID = ch, msg.ChartID
	case KindDestroy:
		if msg.ChartID == m.currentID {
			m.release()
		}
	default:
		return fmt.Errorf("unknown snapshot kind %q", msg.Kind)
	}
	return nil
}

func (m *Mirror) release() {
	if m.current != nil {
		m.current.Destroy()
	}
	m.current, m.currentID = nil, ""
}
