package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Upload   UploadConfig   `yaml:"upload" envconfig:"UPLOAD"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	SessionTTL      time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	File   string `yaml:"file" envconfig:"FILE"`
}

// UploadConfig bounds what the upload endpoint accepts
type UploadConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb" envconfig:"MAX_SIZE_MB" validate:"min=1"`
}

// AnalysisConfig carries the tunable analysis parameters. The defaults
// mirror the billing workflow: 30/60/90 day collection horizons and a
// 30-day overdue threshold.
type AnalysisConfig struct {
	Horizons       []int `yaml:"horizons" envconfig:"HORIZONS" validate:"min=1,dive,min=1"`
	OverdueMinDays int   `yaml:"overdue_min_days" envconfig:"OVERDUE_MIN_DAYS" validate:"min=0"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	WebDir     string `yaml:"web_dir" envconfig:"WEB_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			SessionTTL:      12 * time.Hour,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
			File:   "logs/praxispulse.log",
		},
		Upload: UploadConfig{
			MaxSizeMB: 32,
		},
		Analysis: AnalysisConfig{
			Horizons:       []int{30, 60, 90},
			OverdueMinDays: 30,
		},
		Paths: PathsConfig{
			ReportsDir: "reports",
			WebDir:     "web",
			LogsDir:    "logs",
		},
	}
}

// Load builds the configuration in three layers: built-in defaults, then
// the optional YAML config file, then PRAXIS_* environment variables.
// Later layers win.
func Load() (*Config, error) {
	cfg := Default()

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		overlay(&cfg, fileCfg)
	}

	if err := envconfig.Process("PRAXIS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func configFilePath() string {
	if p := os.Getenv("PRAXIS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(".", "praxispulse.yaml")
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overlay copies the non-zero fields of the file config onto the defaults.
func overlay(dst *Config, file *Config) {
	if file.Server.Port != 0 {
		dst.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 {
		dst.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 {
		dst.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 {
		dst.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 {
		dst.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Server.SessionTTL != 0 {
		dst.Server.SessionTTL = file.Server.SessionTTL
	}
	if len(file.Security.AllowedOrigins) > 0 {
		dst.Security.AllowedOrigins = file.Security.AllowedOrigins
	}
	if file.Security.RateLimit.RPS != 0 {
		dst.Security.RateLimit = file.Security.RateLimit
	}
	if file.Logging.Level != "" {
		dst.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		dst.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" {
		dst.Logging.Output = file.Logging.Output
	}
	if file.Logging.File != "" {
		dst.Logging.File = file.Logging.File
	}
	if file.Upload.MaxSizeMB != 0 {
		dst.Upload.MaxSizeMB = file.Upload.MaxSizeMB
	}
	if len(file.Analysis.Horizons) > 0 {
		dst.Analysis.Horizons = file.Analysis.Horizons
	}
	if file.Analysis.OverdueMinDays != 0 {
		dst.Analysis.OverdueMinDays = file.Analysis.OverdueMinDays
	}
	if file.Paths.ReportsDir != "" {
		dst.Paths.ReportsDir = file.Paths.ReportsDir
	}
	if file.Paths.WebDir != "" {
		dst.Paths.WebDir = file.Paths.WebDir
	}
	if file.Paths.LogsDir != "" {
		dst.Paths.LogsDir = file.Paths.LogsDir
	}
}
