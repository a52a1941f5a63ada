// Package config provides configuration loading for trackd.
//
// Configuration is loaded from a YAML file, then overridden by
// environment variables, with hardcoded defaults filling the gaps.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Data file names inside the data directory. The ledger is a flat CSV
// file; everything else is a JSON document.
const (
	LedgerFile        = "activities.csv"
	RemindersFile     = "reminders.json"
	GoalsFile         = "goals.json"
	MotivationFile    = "motivation.json"
	NotificationsFile = "notifications.json"
	TodosFile         = "todos.json"
)

// Config holds the complete trackd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Notify    NotifyConfig    `koanf:"notify"`
	Reports   ReportsConfig   `koanf:"reports"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// DataConfig holds on-disk data layout configuration.
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// LedgerPath returns the path of the activity ledger CSV.
func (d DataConfig) LedgerPath() string { return filepath.Join(d.Dir, LedgerFile) }

// RemindersPath returns the path of the reminders JSON document.
func (d DataConfig) RemindersPath() string { return filepath.Join(d.Dir, RemindersFile) }

// GoalsPath returns the path of the goals JSON document.
func (d DataConfig) GoalsPath() string { return filepath.Join(d.Dir, GoalsFile) }

// MotivationPath returns the path of the motivation config JSON document.
func (d DataConfig) MotivationPath() string { return filepath.Join(d.Dir, MotivationFile) }

// NotificationsPath returns the path of the notification settings JSON document.
func (d DataConfig) NotificationsPath() string { return filepath.Join(d.Dir, NotificationsFile) }

// TodosPath returns the path of the to-do items JSON document.
func (d DataConfig) TodosPath() string { return filepath.Join(d.Dir, TodosFile) }

// SchedulerConfig holds reminder polling loop configuration.
type SchedulerConfig struct {
	Enabled      bool     `koanf:"enabled"`
	Tick         Duration `koanf:"tick"`
	FiringWindow Duration `koanf:"firing_window"`
}

// NotifyConfig holds notification sink configuration.
type NotifyConfig struct {
	// Command is the platform notification binary (e.g. notify-send).
	// An empty or missing command degrades to a console fallback.
	Command       string   `koanf:"command"`
	Args          []string `koanf:"args"`
	Timeout       Duration `koanf:"timeout"`
	RatePerMinute int      `koanf:"rate_per_minute"`
}

// ReportsConfig maps report names to external script invocations.
type ReportsConfig struct {
	Scripts map[string]string `koanf:"scripts"`
	Timeout Duration          `koanf:"timeout"`
}

// LoggingConfig holds structured logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Stdout bool   `koanf:"stdout"`
	OTEL   bool   `koanf:"otel"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
// Telemetry is disabled by default for users without an OTLP collector.
type TelemetryConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Endpoint        string   `koanf:"endpoint"`
	Protocol        string   `koanf:"protocol"` // "grpc" or "http/protobuf"
	ServiceName     string   `koanf:"service_name"`
	ServiceVersion  string   `koanf:"service_version"`
	Insecure        bool     `koanf:"insecure"`
	SamplingRate    float64  `koanf:"sampling_rate"`
	MetricsEnabled  bool     `koanf:"metrics_enabled"`
	ExportInterval  Duration `koanf:"export_interval"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8742
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Scheduler.Tick == 0 {
		cfg.Scheduler.Tick = Duration(30 * time.Second)
	}
	if cfg.Scheduler.FiringWindow == 0 {
		cfg.Scheduler.FiringWindow = Duration(60 * time.Second)
	}

	if cfg.Notify.Command == "" {
		cfg.Notify.Command = "notify-send"
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = Duration(8 * time.Second)
	}
	if cfg.Notify.RatePerMinute == 0 {
		cfg.Notify.RatePerMinute = 12
	}

	if cfg.Reports.Timeout == 0 {
		cfg.Reports.Timeout = Duration(30 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if !cfg.Logging.Stdout && !cfg.Logging.OTEL {
		cfg.Logging.Stdout = true
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "trackd"
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = "0.1.0"
	}
	if cfg.Telemetry.SamplingRate == 0 {
		cfg.Telemetry.SamplingRate = 1.0
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = Duration(15 * time.Second)
	}
	if cfg.Telemetry.ShutdownTimeout == 0 {
		cfg.Telemetry.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("server shutdown_timeout must be positive")
	}

	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}

	if c.Scheduler.Tick.Duration() <= 0 {
		return fmt.Errorf("scheduler.tick must be positive")
	}
	if c.Scheduler.FiringWindow.Duration() <= 0 {
		return fmt.Errorf("scheduler.firing_window must be positive")
	}

	if c.Notify.Timeout.Duration() <= 0 {
		return fmt.Errorf("notify.timeout must be positive")
	}
	if c.Notify.RatePerMinute < 1 {
		return fmt.Errorf("notify.rate_per_minute must be >= 1, got %d", c.Notify.RatePerMinute)
	}

	if c.Reports.Timeout.Duration() <= 0 {
		return fmt.Errorf("reports.timeout must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http/protobuf" {
			return fmt.Errorf("telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
		}
		if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
			return fmt.Errorf("telemetry.sampling_rate must be between 0 and 1, got %f", c.Telemetry.SamplingRate)
		}
		if c.Telemetry.MetricsEnabled && c.Telemetry.ExportInterval.Duration() <= 0 {
			return fmt.Errorf("telemetry.export_interval must be positive when metrics enabled")
		}
	}

	return nil
}
