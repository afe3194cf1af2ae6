package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret      string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"    envDefault:"1h"  validate:"min=1m,max=24h"`
	ResetTokenTTL  time.Duration `env:"RESET_TOKEN_TTL"     envDefault:"1h"  validate:"min=5m,max=24h"`
	BcryptCost     int           `env:"BCRYPT_COST"         envDefault:"12"  validate:"min=10,max=14"`

	ResendAPIKey     string `env:"RESEND_API_KEY"      validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom       string `env:"RESEND_FROM"         validate:"required_if=Env production,required_if=Env staging"`
	ResetLinkBase    string `env:"RESET_LINK_BASE_URL" envDefault:"http://localhost:5173" validate:"required,url"`
	ExposeResetToken bool   `env:"EXPOSE_RESET_TOKEN"  envDefault:"false" validate:"excluded_if=Env production"`

	AuthRatePerMin int `env:"AUTH_RATE_PER_MIN" envDefault:"20" validate:"min=1,max=1000"`
	AuthRateBurst  int `env:"AUTH_RATE_BURST"   envDefault:"10" validate:"min=1,max=1000"`

	// Proxies whose X-Forwarded-For is believed. Empty means the client IP is
	// always the TCP peer address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
