// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite database file. Empty selects the in-memory
	// store, which loses data on restart.
	DBPath string `koanf:"db_path"`

	// Model names the completion model served by the gateway.
	Model string `koanf:"model"`

	// ModelBaseURL overrides the completion API endpoint. Empty uses
	// the provider default.
	ModelBaseURL string `koanf:"model_base_url"`

	// APIKey authenticates against the completion API. Empty disables
	// the gateway; scoring then runs on the heuristic alone.
	APIKey string `koanf:"api_key"`

	// GatewayTimeoutMS bounds one completion call.
	GatewayTimeoutMS int `koanf:"gateway_timeout_ms"`

	// Temperature and MaxTokens tune completion sampling.
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`

	// ReportWindow sets how many recent analyses feed a report.
	ReportWindow int `koanf:"report_window"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		Model:            "gpt-4o-mini",
		GatewayTimeoutMS: 20_000,
		Temperature:      0.2,
		MaxTokens:        512,
		ReportWindow:     12,
	}
	return c
}
