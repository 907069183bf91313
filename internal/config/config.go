package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Simulator holds all configuration for the statsim tool.
type Simulator struct {
	// Content
	ContentDir string `yaml:"content_dir" env:"STATFORGE_CONTENT_DIR"`
	Sheet      string `yaml:"sheet" env:"STATFORGE_SHEET"`

	// Frame length for simulate and serve
	FrameInterval time.Duration `yaml:"frame_interval" env:"STATFORGE_FRAME_INTERVAL"`

	// Observability
	MetricsAddr string `yaml:"metrics_addr" env:"STATFORGE_METRICS_ADDR"`
	LogLevel    string `yaml:"log_level" env:"STATFORGE_LOG_LEVEL"`

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"STATFORGE_DB_HOST"`
	Port     int    `yaml:"port" env:"STATFORGE_DB_PORT"`
	User     string `yaml:"user" env:"STATFORGE_DB_USER"`
	Password string `yaml:"password" env:"STATFORGE_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"STATFORGE_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"STATFORGE_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		ContentDir:    "content",
		Sheet:         "hero",
		FrameInterval: 50 * time.Millisecond,
		MetricsAddr:   ":9102",
		LogLevel:      "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "statforge",
			Password: "statforge",
			DBName:   "statforge",
			SSLMode:  "disable",
		},
	}
}

// LoadSimulator loads simulator config from a YAML file, then applies
// STATFORGE_* environment overrides.
// If the file doesn't exist, returns defaults (with overrides).
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.FrameInterval <= 0 {
		return cfg, fmt.Errorf("frame_interval must be positive, got %s", cfg.FrameInterval)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (s Simulator) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
