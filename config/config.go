package config

import (
	"fmt"
	"log/slog"
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

	JWTSecret string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	ResetCodeTTL    time.Duration `env:"RESET_CODE_TTL" envDefault:"10m"`
	ResetCodeLength int           `env:"RESET_CODE_LENGTH" envDefault:"8" validate:"min=6,max=64"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	// Monobank merchant API.
	MonoToken       string        `env:"MONO_TOKEN" validate:"required_if=Env production,required_if=Env staging"`
	MonoBaseURL     string        `env:"MONO_BASE_URL" envDefault:"https://api.monobank.ua"`
	MonoRedirectURL string        `env:"MONO_REDIRECT_URL" envDefault:"http://localhost:3000"`
	MonoWebhookURL  string        `env:"MONO_WEBHOOK_URL" envDefault:"http://localhost:8080/api/v1/payments/callback"`
	InvoiceValidity time.Duration `env:"INVOICE_VALIDITY" envDefault:"1h"`

	// Google sign-in + Drive file sharing.
	GoogleClientID   string `env:"GOOGLE_CLIENT_ID"`
	DriveCredentials string `env:"DRIVE_CREDENTIALS_JSON"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	RateLimitPerSecond int   `env:"RATE_LIMIT_PER_SECOND" envDefault:"10" validate:"min=1"`
	RateLimitBurst     int   `env:"RATE_LIMIT_BURST" envDefault:"20" validate:"min=1"`
	MaxBodyBytes       int64 `env:"MAX_BODY_BYTES" envDefault:"10240" validate:"min=1024"`

	SweepCron string `env:"SWEEP_CRON" envDefault:"*/10 * * * *"`
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

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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
