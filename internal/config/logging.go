package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = NewLogger(os.Stderr, false)
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// NewLogger returns a console logger writing to w with RFC3339 timestamps.
func NewLogger(w io.Writer, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor}).
		With().Timestamp().Logger()
}

// SetupLogger reconfigures the package logger for cfg and returns it.
func SetupLogger(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logger, fmt.Errorf("parse log level: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger = NewLogger(os.Stderr, cfg.NoColor).Level(level)
	return logger, nil
}
