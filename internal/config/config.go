// Package config supplies engine defaults from the environment. A local
// .env file is honored when present; explicit environment variables win
// over it, and command-line flags win over both.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvTimeoutMS = "AXLOCATE_TIMEOUT_MS"
	EnvPollMS    = "AXLOCATE_POLL_MS"
	EnvMaxDepth  = "AXLOCATE_MAX_DEPTH"
	EnvLogLevel  = "AXLOCATE_LOG_LEVEL"
)

// Built-in defaults, used when neither flag nor environment overrides.
const (
	DefaultTimeout  = 5000 * time.Millisecond
	DefaultPoll     = 100 * time.Millisecond
	DefaultMaxDepth = 50
)

// Config carries the resolved wait-policy defaults.
type Config struct {
	Timeout  time.Duration
	Poll     time.Duration
	MaxDepth int
	LogLevel slog.Level
}

// Load reads .env (if any) and the environment, returning resolved
// defaults. A missing .env is not an error.
func Load() Config {
	// godotenv does not override variables already set in the real
	// environment, which is exactly the precedence we want.
	_ = godotenv.Load()

	cfg := Config{
		Timeout:  DefaultTimeout,
		Poll:     DefaultPoll,
		MaxDepth: DefaultMaxDepth,
		LogLevel: slog.LevelInfo,
	}

	if ms, ok := intEnv(EnvTimeoutMS); ok && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := intEnv(EnvPollMS); ok && ms > 0 {
		cfg.Poll = time.Duration(ms) * time.Millisecond
	}
	if d, ok := intEnv(EnvMaxDepth); ok && d > 0 {
		cfg.MaxDepth = d
	}
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			cfg.LogLevel = level
		} else {
			slog.Warn("ignoring invalid log level", "value", raw)
		}
	}

	return cfg
}

func intEnv(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring non-numeric environment value", "name", name, "value", raw)
		return 0, false
	}
	return v, true
}
