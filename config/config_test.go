package config_test

import (
	"testing"
	"time"

	"github.com/vkravchuk/courseshop/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/courseshop")
	t.Setenv("JWT_SECRET", "test-jwt-secret-at-least-32-chars!!")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTTTL != 72*time.Hour {
		t.Errorf("JWTTTL = %v, want 72h", cfg.JWTTTL)
	}
	if cfg.ResetCodeTTL != 10*time.Minute {
		t.Errorf("ResetCodeTTL = %v, want 10m", cfg.ResetCodeTTL)
	}
	if cfg.ResetCodeLength != 8 {
		t.Errorf("ResetCodeLength = %d, want 8", cfg.ResetCodeLength)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_MissingDatabaseURL_Fails(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret-at-least-32-chars!!")
	t.Setenv("DATABASE_URL", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoad_ShortJWTSecret_Fails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/courseshop")
	t.Setenv("JWT_SECRET", "too-short")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestLoad_ResetCodeTooShort_Fails(t *testing.T) {
	setRequired(t)
	t.Setenv("RESET_CODE_LENGTH", "4")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for RESET_CODE_LENGTH below 6")
	}
}

func TestSlogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SlogLevel().String(); got != "DEBUG" {
		t.Errorf("SlogLevel = %s, want DEBUG", got)
	}
}
