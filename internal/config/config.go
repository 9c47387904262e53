// internal/config/config.go
//
// Server configuration. Values come from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// DBPath is the sqlite file. Unset keeps flags in memory.
	DBPath string `env:"DB_PATH"`
	// DiscsFile overrides the embedded disc catalog.
	DiscsFile       string `env:"DISCS_FILE"`
	JWTSecret       string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	CookieName      string `env:"COOKIE_NAME" envDefault:"discdle_player"`
	CookieSecure    bool   `env:"COOKIE_SECURE"`
	ClientOrigin    string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	ResetTZ         string `env:"RESET_TZ" envDefault:"America/New_York"`
	HardcoreSeconds int    `env:"HARDCORE_SECONDS" envDefault:"60"`
	ShareTitle      string `env:"SHARE_TITLE" envDefault:"Discdle"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file, then the environment.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HardcoreSeconds <= 0 {
		return fmt.Errorf("HARDCORE_SECONDS must be positive, got %d", c.HardcoreSeconds)
	}
	if _, err := time.LoadLocation(c.ResetTZ); err != nil {
		return fmt.Errorf("RESET_TZ: %w", err)
	}
	return nil
}

// ResetLocation is the zone whose midnight starts a new day on the countdown.
func (c Config) ResetLocation() *time.Location {
	loc, err := time.LoadLocation(c.ResetTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
