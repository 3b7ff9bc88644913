// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"log/slog"
	"os"
)

// Configuration for structured logging.
type LoggingConfig struct {
	// The log level to use (debug, info, warn, error).
	LevelStr string `yaml:"level"`
	// The log format to use (json, text).
	Format string `yaml:"format"`
}

// Conform to the slog.Leveler interface.
func (c LoggingConfig) Level() slog.Level {
	switch c.LevelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Set the structured logger as given in the config.
//
// Logs go to stderr: stdout is reserved for the inventory JSON that the
// host runtime consumes.
func (c LoggingConfig) SetDefaultLogger() {
	opts := &slog.HandlerOptions{Level: c}
	var handler slog.Handler
	switch c.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("logging: set default logger", "level", c.LevelStr, "format", c.Format)
}
