package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	applog "spesechart/internal/log"
)

type poller struct {
	stop func()
	done chan struct{}
}

func (p *poller) running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Start refreshes the chart once and then every interval until the returned
// stop func is called, ctx is cancelled or the controller is closed. A
// second Start while polling returns the running poller's stop func.
func (c *Controller) Start(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	c.pollMu.Lock()
	defer c.pollMu.Unlock()
	if c.poller != nil && c.poller.running() {
		return c.poller.stop
	}

	pctx, cancel := context.WithCancel(ctx)
	p := &poller{done: make(chan struct{})}
	p.stop = sync.OnceFunc(func() {
		cancel()
		<-p.done
	})
	c.poller = p

	go func() {
		defer close(p.done)
		c.poll(pctx, interval)
	}()

	c.logger.WithComponent(applog.ComponentPoller).InfoContext(ctx, "Chart polling started", applog.FieldInterval, interval.String())
	return p.stop
}

func (c *Controller) poll(ctx context.Context, interval time.Duration) {
	_ = c.RefreshChart(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.WithComponent(applog.ComponentPoller).Debug("Chart polling stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := c.RefreshChart(ctx); errors.Is(err, ErrClosed) {
				return
			}
		}
	}
}
