package main

import (
	"context"
	"errors"
	"os"
	"time"

	"spesechart/internal/amqp"
	"spesechart/internal/cli"
	applog "spesechart/internal/log"
	"spesechart/internal/view/term"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentAMQP)

	if !cfg.ChartBroadcastEnabled() {
		logger.Error("CHART_AMQP_URL is required",
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, _ := cli.GracefulShutdown(logger, 5*time.Second, nil)

	client, err := amqp.DialWithRetry(ctx, cfg.ChartAMQPURL, cfg.ChartAMQPExchange, cfg.ChartAMQPQueue, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("Failed to connect to AMQP", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	mirror := amqp.NewMirror(term.New(os.Stdout))
	logger.Info("Tailing chart snapshots", "queue", cfg.ChartAMQPQueue)

	if err := client.ConsumeChartSnapshots(ctx, mirror.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Chart snapshot consumer stopped", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Chart tail stopped")
}
