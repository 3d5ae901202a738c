package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"spotlight"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`

	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	PostgresDSN    string `envconfig:"POSTGRES_DSN"`
	SQLitePath     string `envconfig:"SQLITE_PATH"`
	MaxOpenConns   int    `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns   int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// DefaultTimezone applies to competitions created without one and to
	// votes for competitions the clock does not know.
	DefaultTimezone     string `envconfig:"DEFAULT_TIMEZONE" default:"UTC"`
	MaxPurchaseQuantity int64  `envconfig:"MAX_PURCHASE_QUANTITY" default:"1000"`
	SeedFile            string `envconfig:"SEED_FILE"`

	OutboxBatchSize      int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	WorkerPollInterval   time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"2s"`
	NotificationDedupTTL time.Duration `envconfig:"NOTIFICATION_DEDUP_TTL" default:"168h"`

	EnableNotificationConsumer bool `envconfig:"ENABLE_NOTIFICATION_CONSUMER" default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored;
// variables already set in the environment win over the file.
func LoadFile(envFile string) (Config, error) {
	if path := strings.TrimSpace(envFile); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	switch c.DatabaseDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if _, err := time.LoadLocation(strings.TrimSpace(c.DefaultTimezone)); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	if c.MaxPurchaseQuantity <= 0 {
		return errors.New("MAX_PURCHASE_QUANTITY must be positive")
	}
	if c.WorkerPollInterval <= 0 {
		return errors.New("WORKER_POLL_INTERVAL must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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

// Location returns the default timezone. Validate has already proved it
// loads.
func (c Config) Location() *time.Location {
	location, err := time.LoadLocation(strings.TrimSpace(c.DefaultTimezone))
	if err != nil {
		return time.UTC
	}
	return location
}
