// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	backendURL := cfg.Backend.BaseURL
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use "500ms" syntax;
// yaml.v3 only decodes integers into time.Duration directly.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Backend       BackendConfig       `yaml:"backend"`
	Storage       StorageConfig       `yaml:"storage"`
	Engine        EngineConfig        `yaml:"engine"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// BackendConfig holds the evaluation backend settings
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`

	// FetchAttempts is the total number of evaluation polls per scan.
	FetchAttempts int `yaml:"fetch_attempts"`

	// FetchBackoff is the linear backoff step between polls.
	FetchBackoff Duration `yaml:"fetch_backoff"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// EngineConfig holds decision engine tuning.
// Zero values mean "use the built-in marketplace defaults".
type EngineConfig struct {
	EBayFeeRate   float64 `yaml:"ebay_fee_rate"`
	EBayFlatFee   float64 `yaml:"ebay_flat_fee"`
	AmazonFeeRate float64 `yaml:"amazon_fee_rate"`
	AmazonFlatFee float64 `yaml:"amazon_flat_fee"`

	// DefaultAcquisitionCost is assumed when a scan omits the cost.
	DefaultAcquisitionCost float64 `yaml:"default_acquisition_cost"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${LOTHELPER_API_URL})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("ENGINE_ADDR", ":8090"),
		},
		Backend: BackendConfig{
			BaseURL:       getEnv("LOTHELPER_API_URL", "http://localhost:8000"),
			FetchAttempts: getEnvInt("LOTHELPER_FETCH_ATTEMPTS", 3),
			FetchBackoff:  Duration(getEnvDuration("LOTHELPER_FETCH_BACKOFF", time.Second)),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("ENGINE_DB_PATH", "catalog.db"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvDuration retrieves a duration environment variable with a fallback default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
