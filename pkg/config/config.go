package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/diplomacy/pkg/catalog"
	"github.com/platinummonkey/diplomacy/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Plugin discovery and lifecycle
	Plugins PluginsConfig `yaml:"plugins"`

	// HTTP surface for the run command
	Server ServerConfig `yaml:"server"`

	Observability ObservabilityConfig `yaml:"observability"`
}

// PluginsConfig holds plugin discovery and lifecycle settings
type PluginsConfig struct {
	SearchPaths       []string      `yaml:"search_paths"`
	WatchDir          string        `yaml:"watch_dir"`
	ImplicitLoad      bool          `yaml:"implicit_load"`
	ParallelLifecycle int           `yaml:"parallel_lifecycle"`
	DiscoveryTimeout  time.Duration `yaml:"discovery_timeout"`

	// CEL expression over candidate descriptors, e.g. provider == "ProviderABC"
	Selector string `yaml:"selector"`

	// Cron schedule for re-running discovery while the host runs, e.g. "@every 5m"
	RediscoverSchedule string `yaml:"rediscover_schedule"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Metrics
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// OpenTelemetry
	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"` // Use insecure gRPC connection
}

// Level returns the parsed log level
func (o ObservabilityConfig) Level() observability.LogLevel {
	return observability.ParseLogLevel(o.LogLevel)
}

// OTel returns the tracing settings
func (o ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        o.OTelEnabled,
		Endpoint:       o.OTelEndpoint,
		ServiceName:    o.OTelServiceName,
		ServiceVersion: o.OTelServiceVersion,
		Insecure:       o.OTelInsecure,
	}
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Plugins: PluginsConfig{
			DiscoveryTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			LogFormat:          string(observability.TextFormat),
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "diplomacy",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

// LoadConfig loads configuration from the YAML file at path, if any, then
// applies environment variable overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnv overrides fields whose DIPLOMACY_* variable is set
func (c *Config) applyEnv() {
	p := &c.Plugins
	if paths := getEnv("DIPLOMACY_PLUGIN_PATHS", ""); paths != "" {
		p.SearchPaths = splitPaths(paths)
	}
	p.WatchDir = getEnv("DIPLOMACY_WATCH_DIR", p.WatchDir)
	p.ImplicitLoad = getEnvBool("DIPLOMACY_IMPLICIT_LOAD", p.ImplicitLoad)
	p.ParallelLifecycle = getEnvInt("DIPLOMACY_PARALLEL_LIFECYCLE", p.ParallelLifecycle)
	p.DiscoveryTimeout = getEnvDuration("DIPLOMACY_DISCOVERY_TIMEOUT", p.DiscoveryTimeout)
	p.Selector = getEnv("DIPLOMACY_PLUGIN_SELECTOR", p.Selector)
	p.RediscoverSchedule = getEnv("DIPLOMACY_REDISCOVER_SCHEDULE", p.RediscoverSchedule)

	s := &c.Server
	s.Host = getEnv("DIPLOMACY_HOST", s.Host)
	s.Port = getEnv("DIPLOMACY_PORT", s.Port)
	s.ReadTimeout = getEnvDuration("DIPLOMACY_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration("DIPLOMACY_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvDuration("DIPLOMACY_IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = getEnvDuration("DIPLOMACY_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)

	o := &c.Observability
	o.LogLevel = getEnv("DIPLOMACY_LOG_LEVEL", o.LogLevel)
	o.LogFormat = getEnv("DIPLOMACY_LOG_FORMAT", o.LogFormat)
	o.MetricsEnabled = getEnvBool("DIPLOMACY_METRICS_ENABLED", o.MetricsEnabled)
	o.OTelEnabled = getEnvBool("DIPLOMACY_OTEL_ENABLED", o.OTelEnabled)
	o.OTelEndpoint = getEnv("DIPLOMACY_OTEL_ENDPOINT", o.OTelEndpoint)
	o.OTelServiceName = getEnv("DIPLOMACY_OTEL_SERVICE_NAME", o.OTelServiceName)
	o.OTelServiceVersion = getEnv("DIPLOMACY_OTEL_SERVICE_VERSION", o.OTelServiceVersion)
	o.OTelInsecure = getEnvBool("DIPLOMACY_OTEL_INSECURE", o.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Plugins.ParallelLifecycle < 0 {
		return fmt.Errorf("parallel lifecycle limit must not be negative")
	}
	if c.Plugins.DiscoveryTimeout < 0 {
		return fmt.Errorf("discovery timeout must not be negative")
	}
	if c.Plugins.RediscoverSchedule != "" {
		if _, err := cron.ParseStandard(c.Plugins.RediscoverSchedule); err != nil {
			return fmt.Errorf("invalid rediscover schedule %q: %w", c.Plugins.RediscoverSchedule, err)
		}
	}
	if c.Plugins.Selector != "" {
		if _, err := catalog.NewSelector(c.Plugins.Selector); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Observability.LogLevel)
	}

	switch observability.LogFormat(c.Observability.LogFormat) {
	case observability.TextFormat, observability.JSONFormat:
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Observability.LogFormat)
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// splitPaths splits a list on commas and the OS path list separator
func splitPaths(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == filepath.ListSeparator
	})
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			paths = append(paths, f)
		}
	}
	return paths
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
