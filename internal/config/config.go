package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	BackendHTTP   = "http"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server (spese-web)
	Port        string
	MetricsAddr string

	// Expense store
	StoreBackend  string
	StoreURL      string
	StoreTimeout  time.Duration
	StoreSeedFile string

	// Controller
	PollInterval         time.Duration
	SilentCreateFailures bool

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP chart broadcast, disabled when the URL is empty
	ChartAMQPURL      string
	ChartAMQPExchange string
	ChartAMQPQueue    string
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		MetricsAddr: getEnv("METRICS_ADDR", ""),

		StoreBackend:  getEnv("STORE_BACKEND", BackendHTTP),
		StoreURL:      getEnv("STORE_URL", "http://localhost:5000"),
		StoreTimeout:  getEnvDuration("STORE_TIMEOUT", 0),
		StoreSeedFile: getEnv("STORE_SEED_FILE", ""),

		PollInterval:         getEnvDuration("POLL_INTERVAL", 5*time.Second),
		SilentCreateFailures: getEnvBool("SILENT_CREATE_FAILURES", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		ChartAMQPURL:      getEnv("CHART_AMQP_URL", ""),
		ChartAMQPExchange: getEnv("CHART_AMQP_EXCHANGE", "spese"),
		ChartAMQPQueue:    getEnv("CHART_AMQP_QUEUE", "chart_snapshots"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate store backend
	validBackends := []string{BackendHTTP, BackendMemory}
	if !slices.Contains(validBackends, c.StoreBackend) {
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.StoreBackend, validBackends))
	}

	// Validate store URL if backend is http
	if c.StoreBackend == BackendHTTP {
		if c.StoreURL == "" {
			errors = append(errors, "store URL cannot be empty when using http backend")
		} else if parsedURL, err := url.Parse(c.StoreURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid store URL '%s': %v", c.StoreURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid store URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate seed file if provided
	if c.StoreSeedFile != "" {
		if _, err := os.Stat(c.StoreSeedFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("store seed file does not exist: %s", c.StoreSeedFile))
		}
	}

	if c.StoreTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid store timeout %v: must not be negative", c.StoreTimeout))
	}

	if c.PollInterval < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid poll interval %v: must be at least 100ms", c.PollInterval))
	} else if c.PollInterval > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid poll interval %v: must be at most 1 hour", c.PollInterval))
	}

	// Validate logging
	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	validFormats := []string{"text", "json", "tint"}
	if !slices.Contains(validFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	// Validate AMQP URL if provided
	if c.ChartAMQPURL != "" {
		if parsedURL, err := url.Parse(c.ChartAMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.ChartAMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.ChartAMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.ChartAMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ChartBroadcastEnabled reports whether chart snapshots go to AMQP.
func (c *Config) ChartBroadcastEnabled() bool {
	return c.ChartAMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
