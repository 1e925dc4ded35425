package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "ytstats/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "YTSTATS"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Query     QueryConfig     `yaml:"query" envconfig:"QUERY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// DatasetConfig locates the statistics source read once at startup.
// SourcePath may name a file or a directory; for a directory the newest
// .csv or .xlsx inside it is used.
type DatasetConfig struct {
	SourcePath string `yaml:"source_path" envconfig:"SOURCE_PATH"`
	Encoding   string `yaml:"encoding" envconfig:"ENCODING"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// TelemetryConfig switches the OpenTelemetry providers
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// QueryConfig bounds the top-N style queries served over HTTP
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit" envconfig:"DEFAULT_LIMIT"`
	MaxLimit     int `yaml:"max_limit" envconfig:"MAX_LIMIT"`
}

// Load builds the configuration from defaults, an optional YAML file and
// YTSTATS_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(configFile, "failed to load config from file", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError(EnvPrefix, "failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile is Load with an explicit YAML file instead of the search path
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, apperrors.NewConfigError(path, "failed to load config from file", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError(EnvPrefix, "failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML document onto cfg; keys absent from the
// file keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.NewConfigError("server.port", fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	if c.Server.ReadTimeout <= 0 {
		return apperrors.NewConfigError("server.read_timeout", "server read timeout must be positive", nil)
	}

	if c.Server.WriteTimeout <= 0 {
		return apperrors.NewConfigError("server.write_timeout", "server write timeout must be positive", nil)
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return apperrors.NewConfigError("security.allowed_origins", "at least one allowed origin must be specified", nil)
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return apperrors.NewConfigError("security.rate_limit", "rate limit rps and burst must be positive", nil)
	}

	if strings.TrimSpace(c.Dataset.SourcePath) == "" {
		return apperrors.NewConfigError("dataset.source_path", "dataset source path must be specified", nil)
	}

	if c.Dataset.Encoding == "" {
		c.Dataset.Encoding = "latin-1"
	}

	if c.Query.DefaultLimit < 0 || c.Query.MaxLimit <= 0 {
		return apperrors.NewConfigError("query", "query limits must be positive", nil)
	}

	if c.Query.DefaultLimit > c.Query.MaxLimit {
		return apperrors.NewConfigError("query.default_limit",
			fmt.Sprintf("default query limit %d exceeds max limit %d", c.Query.DefaultLimit, c.Query.MaxLimit), nil)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return apperrors.NewConfigError("telemetry.sample_ratio",
			fmt.Sprintf("telemetry sample ratio must be within [0,1], got %v", c.Telemetry.SampleRatio), nil)
	}

	// Always JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/ytstats.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "console",
			FilePath:    "logs/ytstats.log",
			Development: false,
		},
		Dataset: DatasetConfig{
			SourcePath: "data/Global_YouTube_Statistics.csv",
			Encoding:   "latin-1",
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
			TraceExporter: "stdout",
			SampleRatio:   1.0,
			Environment:   "development",
		},
		Query: QueryConfig{
			DefaultLimit: 10,
			MaxLimit:     1000,
		},
	}
}
