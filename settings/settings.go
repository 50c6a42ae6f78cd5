/*
settings.go - Process settings for the horasett binary

PURPOSE:
  Everything the process needs that is not payroll data: which storage
  backend to open, where the HTTP server listens, how to log. Payroll
  configuration (rates, percentages, language) lives in the store, not here.

SOURCES (lowest to highest precedence):
  1. Defaults below
  2. Config file (--config, or ./horasett.{yaml,json,toml} when present)
  3. Environment, prefixed HORASETT_ (a .env file is loaded by cmd/horasett)
  4. Command-line flags bound by the cli package

KEYS:
  store             sqlite | postgres | memory
  sqlite_path       SQLite database file (":memory:" allowed)
  postgres_dsn      pgx connection string, required when store=postgres
  addr              HTTP listen address for `horasett serve`
  log_level         zerolog level name
  log_format        console | json
  history_months    default window for history views
  allowed_origins   CORS origins, comma separated in the environment
  shutdown_timeout  grace period for in-flight requests

SEE ALSO:
  - cli/cli.go: flag binding
  - cmd/horasett/main.go: .env loading
*/
package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "HORASETT"

// Storage backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Viper keys.
const (
	KeyStore           = "store"
	KeySQLitePath      = "sqlite_path"
	KeyPostgresDSN     = "postgres_dsn"
	KeyAddr            = "addr"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyHistoryMonths   = "history_months"
	KeyAllowedOrigins  = "allowed_origins"
	KeyShutdownTimeout = "shutdown_timeout"
)

type Settings struct {
	Store           string        `mapstructure:"store"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	PostgresDSN     string        `mapstructure:"postgres_dsn"`
	Addr            string        `mapstructure:"addr"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	HistoryMonths   int           `mapstructure:"history_months"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		Store:           StoreSQLite,
		SQLitePath:      "horasett.db",
		Addr:            ":8080",
		LogLevel:        zerolog.InfoLevel.String(),
		LogFormat:       FormatConsole,
		HistoryMonths:   6,
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewViper returns a viper instance with defaults and environment binding
// in place. configFile may be empty.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyStore, d.Store)
	v.SetDefault(KeySQLitePath, d.SQLitePath)
	v.SetDefault(KeyPostgresDSN, d.PostgresDSN)
	v.SetDefault(KeyAddr, d.Addr)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyHistoryMonths, d.HistoryMonths)
	v.SetDefault(KeyAllowedOrigins, d.AllowedOrigins)
	v.SetDefault(KeyShutdownTimeout, d.ShutdownTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return v, nil
	}

	v.SetConfigName("horasett")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// FromViper decodes and validates settings.
func FromViper(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load is NewViper followed by FromViper.
func Load(configFile string) (Settings, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return Settings{}, err
	}
	return FromViper(v)
}

// Validate reports every problem at once.
func (s Settings) Validate() error {
	var errs []error

	switch s.Store {
	case StoreSQLite:
		if s.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for the sqlite store"))
		}
	case StorePostgres:
		if s.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres_dsn is required for the postgres store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", s.Store))
	}

	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if s.LogFormat != FormatConsole && s.LogFormat != FormatJSON {
		errs = append(errs, fmt.Errorf("unknown log_format %q", s.LogFormat))
	}
	if s.HistoryMonths < 1 {
		errs = append(errs, fmt.Errorf("history_months must be positive, got %d", s.HistoryMonths))
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative, got %s", s.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, InfoLevel if unparseable.
func (s Settings) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
