// Package cli provides common CLI initialization utilities shared by the
// binaries under cmd/.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spesechart/internal/config"
	applog "spesechart/internal/log"
	"spesechart/internal/store"
	"spesechart/internal/store/httpstore"
	"spesechart/internal/store/memory"
)

// SetupLogger initializes structured logging from the configuration and
// sets it as the default logger.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    applog.Format(strings.ToLower(cfg.LogFormat)),
		Component: component,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed",
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the expense store selected by STORE_BACKEND.
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, cfg *config.Config) store.Store {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		if cfg.StoreSeedFile == "" {
			logger.Info("Initialized memory store")
			return memory.New()
		}
		s, err := memory.NewFromFile(cfg.StoreSeedFile)
		if err != nil {
			logger.Error("Failed to seed memory store", applog.FieldError, err.Error(), "path", cfg.StoreSeedFile)
			os.Exit(1)
		}
		logger.Info("Initialized memory store", applog.FieldRecords, s.Len(), "path", cfg.StoreSeedFile)
		return s
	default:
		c, err := httpstore.New(cfg.StoreURL,
			httpstore.WithTimeout(cfg.StoreTimeout),
			httpstore.WithLogger(logger))
		if err != nil {
			logger.Error("Failed to initialize HTTP store", applog.FieldError, err.Error(), applog.FieldUpstream, cfg.StoreURL)
			os.Exit(1)
		}
		logger.Info("Initialized HTTP store", applog.FieldUpstream, cfg.StoreURL)
		return c
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when cleanup is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}
