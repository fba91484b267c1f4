// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultRequestTimeout bounds the account endpoints.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultDatabaseMaxConns is the default pgx pool size.
	DefaultDatabaseMaxConns = 10

	// DefaultDatabaseMinConns is the default number of warm pool connections.
	DefaultDatabaseMinConns = 1

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Database  DatabaseConfig  `koanf:"database"`
	I18n      I18nConfig      `koanf:"i18n"      validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// DatabaseConfig selects the account store. When disabled the service keeps
// accounts in memory.
type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	DSN             string        `koanf:"dsn"                validate:"required_if=Enabled true"`
	MaxConns        int32         `koanf:"max_conns"          validate:"omitempty,min=1,max=1000"`
	MinConns        int32         `koanf:"min_conns"          validate:"omitempty,min=0,ltefield=MaxConns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	Migrate         bool          `koanf:"migrate"`
}

// I18nConfig contains message catalog locale settings.
type I18nConfig struct {
	DefaultLocale    string   `koanf:"default_locale"    validate:"required,bcp47_language_tag"`
	SupportedLocales []string `koanf:"supported_locales" validate:"required,min=1,dive,bcp47_language_tag"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "account-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  DefaultRequestTimeout.String(),
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "account-service",
		"telemetry.sampling_rate": 1.0,

		"database.enabled":            false,
		"database.dsn":                "",
		"database.max_conns":          DefaultDatabaseMaxConns,
		"database.min_conns":          DefaultDatabaseMinConns,
		"database.max_conn_lifetime":  "1h",
		"database.max_conn_idle_time": "30m",
		"database.migrate":            true,

		"i18n.default_locale":    "en-US",
		"i18n.supported_locales": []string{"en-US", "es"},
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	err = splitList(k, "i18n.supported_locales")
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_SERVER_PORT to server.port. Keys whose final segment is
// itself snake_case are recognised so that APP_DATABASE_MAX_CONNS lands on
// database.max_conns.
func envKey(key string) string {
	return envPath(strings.ToLower(strings.TrimPrefix(key, "APP_")))
}

// envPath resolves an underscore separated env key against the known
// config keys, falling back to replacing every underscore with a dot.
func envPath(raw string) string {
	for known := range defaults() {
		if strings.ReplaceAll(known, ".", "_") == raw {
			return known
		}
	}

	return strings.ReplaceAll(raw, "_", ".")
}

// splitList turns a comma separated string, as set through the environment,
// into a slice.
func splitList(k *koanf.Koanf, key string) error {
	raw, ok := k.Get(key).(string)
	if !ok {
		return nil
	}

	items := strings.Split(raw, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}

	if err := k.Set(key, items); err != nil {
		return fmt.Errorf("splitting %s: %w", key, err)
	}

	return nil
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
