package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Get returns the value of the environment variable key, or fallback when it
// is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Env is the process configuration shared by the commands.
type Env struct {
	Port        string        `validate:"required,numeric"`
	DatabaseURL string        `validate:"omitempty,url"`
	RedisAddr   string        `validate:"omitempty,hostname_port"`
	RunMetaTTL  time.Duration `validate:"gte=0"`
	LogLevel    string        `validate:"oneof=debug info warn error"`
	LogFormat   string        `validate:"oneof=json text"`
}

var envValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadEnv reads Env from the environment and validates it.
func LoadEnv() (Env, error) {
	ttl, err := time.ParseDuration(Get("RUN_META_TTL", "24h"))
	if err != nil {
		return Env{}, fmt.Errorf("load env: RUN_META_TTL: %w", err)
	}

	env := Env{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RunMetaTTL:  ttl,
		LogLevel:    strings.ToLower(Get("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(Get("LOG_FORMAT", "json")),
	}

	if err := envValidator.Struct(env); err != nil {
		return Env{}, fmt.Errorf("load env: %w", err)
	}
	return env, nil
}

// NewLogger builds the process logger described by env.
func (e Env) NewLogger() *slog.Logger {
	var level slog.Level
	switch e.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if e.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
