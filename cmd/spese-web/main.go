package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spesechart/internal/cli"
	apphttp "spesechart/internal/http"
	applog "spesechart/internal/log"
	"spesechart/internal/metrics"
	appweb "spesechart/web"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentHTTP)

	upstream, err := url.Parse(cfg.StoreURL)
	if err != nil {
		logger.Error("Invalid store URL", applog.FieldError, err.Error(), applog.FieldUpstream, cfg.StoreURL)
		os.Exit(1)
	}

	m := metrics.New()
	srv := apphttp.NewServer(":"+cfg.Port, upstream, appweb.Static(),
		apphttp.WithLogger(logger),
		apphttp.WithMetrics(m))

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(ctx)
		}
	})

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting spese web server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			applog.FieldUpstream, upstream.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if metricsSrv != nil {
		g.Go(func() error {
			logger.WithComponent(applog.ComponentMetrics).Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error",
			applog.FieldOperation, applog.OpShutdown,
			applog.FieldErrorType, applog.ErrorTypeInternal,
			applog.FieldError, err.Error(),
			"port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
