// Package config reads host settings from the environment, with an optional
// .env file. Command-line flags override these in cmd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvContent     = "OVERWORLD_CONTENT"
	EnvLogLevel    = "OVERWORLD_LOG_LEVEL"
	EnvInspectAddr = "OVERWORLD_INSPECT_ADDR"
	EnvFPS         = "OVERWORLD_FPS"
)

// Defaults.
const (
	DefaultFPS      = 30
	MaxFPS          = 240
	DefaultLogLevel = log.InfoLevel
)

// Config holds host settings.
type Config struct {
	ContentDir  string
	LogLevel    log.Level
	InspectAddr string // empty disables the inspector
	FPS         int
}

// Load reads the environment after applying envFiles (".env" when none are
// given). A missing default .env is not an error; a missing named file is.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	cfg := &Config{
		ContentDir:  getEnv(EnvContent, ""),
		InspectAddr: getEnv(EnvInspectAddr, ""),
		LogLevel:    DefaultLogLevel,
		FPS:         DefaultFPS,
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	if v := os.Getenv(EnvFPS); v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvFPS, err)
		}
		cfg.FPS = fps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.FPS < 1 || c.FPS > MaxFPS {
		return fmt.Errorf("fps %d out of range [1, %d]", c.FPS, MaxFPS)
	}
	return nil
}

// FrameSeconds is the fixed simulation step for FPS.
func (c *Config) FrameSeconds() float64 {
	return 1 / float64(c.FPS)
}

// getEnv returns the environment value or the default when unset.
func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
