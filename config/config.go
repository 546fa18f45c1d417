// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the immutable application configuration. It is built once in
// main and handed to module constructors by value.
type Config struct {
	Auth       AuthConfig
	Database   DatabaseConfig
	HTTP       HTTPConfig
	Log        LogConfig
	Pagination PaginationConfig

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	SecretKey       string `env:"SECRET_KEY,required,notEmpty"`
	TokenTTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`
	Algorithm       string `env:"ALGORITHM" envDefault:"HS256"`
	Issuer          string `env:"JWT_ISSUER" envDefault:"tasks-api"`
	PasswordScheme  string `env:"PASSWORD_SCHEME" envDefault:"argon2id"`
}

// TokenTTL returns the access token lifetime.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// DatabaseConfig holds the storage connection settings.
type DatabaseConfig struct {
	URL   string `env:"DATABASE_URL" envDefault:"sqlite:///./app.db"`
	Debug bool   `env:"DB_DEBUG" envDefault:"false"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr           string        `env:"HTTP_ADDR" envDefault:":8000"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost,http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173"`
}

// LogConfig selects the mono logger level.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// PaginationConfig holds list defaults.
type PaginationConfig struct {
	DefaultPage int `env:"DEFAULT_PAGE" envDefault:"1"`
	DefaultSize int `env:"DEFAULT_SIZE" envDefault:"10"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	// A missing .env file is fine; real environment variables win.
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []string

	if c.Auth.TokenTTLMinutes < 1 {
		problems = append(problems, "ACCESS_TOKEN_EXPIRE_MINUTES must be at least 1")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		problems = append(problems, fmt.Sprintf("ALGORITHM %q is not a supported HMAC algorithm", c.Auth.Algorithm))
	}
	switch c.Auth.PasswordScheme {
	case "argon2id", "bcrypt":
	default:
		problems = append(problems, fmt.Sprintf("PASSWORD_SCHEME %q is not supported", c.Auth.PasswordScheme))
	}
	switch c.Log.Level {
	case "info", "error":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not supported", c.Log.Level))
	}
	if c.Pagination.DefaultPage < 1 {
		problems = append(problems, "DEFAULT_PAGE must be at least 1")
	}
	if c.Pagination.DefaultSize < 1 {
		problems = append(problems, "DEFAULT_SIZE must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}
