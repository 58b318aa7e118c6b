//go:build js && wasm

package main

import (
	"context"
	"os"
	"syscall/js"

	"spesechart/internal/controller"
	"spesechart/internal/dom"
	applog "spesechart/internal/log"
	"spesechart/internal/store/httpstore"
)

func main() {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel("info"),
		Format:    applog.FormatText,
		Component: applog.ComponentView,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)

	page, err := dom.Lookup()
	if err != nil {
		logger.Error("Page is missing required elements", applog.FieldError, err.Error())
		return
	}

	origin := js.Global().Get("location").Get("origin").String()
	store, err := httpstore.New(origin, httpstore.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to initialize HTTP store", applog.FieldError, err.Error(), applog.FieldUpstream, origin)
		return
	}

	ctx := context.Background()
	ctrl := controller.New(store, page, page, page, page, controller.WithLogger(logger))
	if err := ctrl.Populate(ctx); err != nil {
		logger.Warn("Starting with an empty list", applog.FieldError, err.Error())
	}

	page.Bind(ctx, ctrl)
	ctrl.Start(ctx, controller.DefaultPollInterval)
	logger.Info("Expense page ready", applog.FieldUpstream, origin)

	// The page owns the lifetime; keep the handlers alive until it unloads.
	select {}
}
