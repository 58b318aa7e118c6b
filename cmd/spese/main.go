package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spesechart/internal/amqp"
	"spesechart/internal/cli"
	"spesechart/internal/config"
	"spesechart/internal/controller"
	applog "spesechart/internal/log"
	"spesechart/internal/metrics"
	"spesechart/internal/shell"
	"spesechart/internal/view"
	"spesechart/internal/view/term"
)

var errShellClosed = errors.New("shell closed")

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	st := cli.InitStore(logger, cfg)
	m := metrics.New()

	form := &term.Form{}
	tv := term.New(os.Stdout)

	var renderer view.ChartRenderer = tv
	publisher := dialChartBroadcast(logger, cfg)
	if publisher != nil {
		defer publisher.Close()
		renderer = view.MultiRenderer{tv, view.BestEffort(amqp.NewChartRenderer(publisher, logger), func(err error) {
			logger.Warn("Chart broadcast failed",
				applog.FieldOperation, applog.OpPublish,
				applog.FieldError, err.Error())
		})}
	}

	opts := []controller.Option{controller.WithLogger(logger), controller.WithMetrics(m)}
	var shellOpts []shell.Option
	if cfg.SilentCreateFailures {
		opts = append(opts, controller.WithSilentCreateFailures())
		shellOpts = append(shellOpts, shell.WithSilentCreateFailures())
	}
	ctrl := controller.New(st, form, tv, tv, renderer, opts...)
	defer ctrl.Close()

	ctx, _ := cli.GracefulShutdown(logger, 10*time.Second, nil)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.WithComponent(applog.ComponentMetrics).Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := ctrl.Populate(gctx); err != nil {
		logger.Warn("Starting with an empty list", applog.FieldError, err.Error())
	}
	stop := ctrl.Start(gctx, cfg.PollInterval)
	logger.Info("Terminal client started",
		applog.FieldOperation, applog.OpStartup,
		"backend", cfg.StoreBackend)

	g.Go(func() error {
		defer stop()
		sh := shell.New(ctrl, st, form, tv, os.Stdout, logger, shellOpts...)
		if err := sh.Run(gctx, os.Stdin); err != nil {
			return err
		}
		return errShellClosed
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShellClosed) {
		logger.Error("Terminal client stopped",
			applog.FieldOperation, applog.OpShutdown,
			applog.FieldErrorType, applog.ErrorTypeInternal,
			applog.FieldError, err.Error())
		ctrl.Close()
		os.Exit(1)
	}
	logger.Info("Terminal client stopped", applog.FieldOperation, applog.OpShutdown)
}

// dialChartBroadcast connects to the broker when CHART_AMQP_URL is set.
// A failed dial disables the broadcast instead of stopping the client.
func dialChartBroadcast(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.ChartBroadcastEnabled() {
		return nil
	}
	c, err := amqp.NewClient(cfg.ChartAMQPURL, cfg.ChartAMQPExchange, cfg.ChartAMQPQueue, logger)
	if err != nil {
		logger.Warn("Chart broadcast disabled",
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		return nil
	}
	logger.Info("Broadcasting chart snapshots",
		"exchange", cfg.ChartAMQPExchange,
		"queue", cfg.ChartAMQPQueue)
	return c
}
