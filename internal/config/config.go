package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown settings backend")

type Config struct {
	Addr     string `env:"GIFTBOX_ADDR" envDefault:":8080"`
	LogLevel string `env:"GIFTBOX_LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"GIFTBOX_LOG_DEV" envDefault:"false"`

	SettingsBackend Backend `env:"GIFTBOX_SETTINGS_BACKEND" envDefault:"file"`
	SettingsDir     string  `env:"GIFTBOX_SETTINGS_DIR" envDefault:"data"`
	SettingsKey     string  `env:"GIFTBOX_SETTINGS_KEY" envDefault:"letter-game-settings"`
	DatabaseURL     string  `env:"DATABASE_URL"`
	SQLitePath      string  `env:"GIFTBOX_SQLITE_PATH" envDefault:"data/giftbox.db"`

	CatalogPath   string `env:"GIFTBOX_CATALOG_PATH"`
	WorksheetFont string `env:"GIFTBOX_WORKSHEET_FONT"`

	OpenDelay   time.Duration `env:"GIFTBOX_OPEN_DELAY" envDefault:"200ms"`
	RevealDelay time.Duration `env:"GIFTBOX_REVEAL_DELAY" envDefault:"800ms"`
	SwitchDelay time.Duration `env:"GIFTBOX_SWITCH_DELAY" envDefault:"300ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given .env files (default ".env"; missing files are
// fine), then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.SettingsBackend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.SettingsBackend)
	}
	if c.OpenDelay < 0 || c.RevealDelay < 0 || c.SwitchDelay < 0 {
		return errors.New("reveal delays must not be negative")
	}
	return nil
}

func (c Config) Timing() engine.Timing {
	return engine.Timing{
		OpenDelay:   c.OpenDelay,
		RevealDelay: c.RevealDelay,
		SwitchDelay: c.SwitchDelay,
	}
}
