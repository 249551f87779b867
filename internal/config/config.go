// Package config reads the engine's tunables from the environment.
// Every knob has a sane default; a .env file is honored when present.
package config

import (
	"os"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/logger"
	"github.com/hammamikhairi/hearthcook/internal/session"
	"github.com/hammamikhairi/hearthcook/internal/storage"
	"github.com/hammamikhairi/hearthcook/internal/tick"
)

// Env var names.
const (
	EnvTickInterval = "HEARTHCOOK_TICK"
	EnvStirSlack    = "HEARTHCOOK_STIR_SLACK"
	EnvSaveDebounce = "HEARTHCOOK_SAVE_DEBOUNCE"
	EnvDBPath       = "HEARTHCOOK_DB"
	EnvLogLevel     = "HEARTHCOOK_LOG"
)

// Config holds the resolved settings for a run.
type Config struct {
	TickInterval time.Duration
	StirSlack    time.Duration
	SaveDebounce time.Duration
	// DBPath is the sqlite settings file. Empty means in-memory only.
	DBPath   string
	LogLevel logger.Level
}

// FromEnv resolves the config from the environment.
func FromEnv() Config {
	return Config{
		TickInterval: envDuration(EnvTickInterval, tick.DefaultInterval),
		StirSlack:    envDuration(EnvStirSlack, session.DefaultStirSlack),
		SaveDebounce: envDuration(EnvSaveDebounce, storage.DefaultDebounce),
		DBPath:       os.Getenv(EnvDBPath),
		LogLevel:     logger.ParseLevel(os.Getenv(EnvLogLevel)),
	}
}

// envDuration parses a duration env var, falling back on absence or
// garbage.
func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
