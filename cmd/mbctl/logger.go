package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// envLogLevel overrides the level chosen by --verbose and --quiet.
const envLogLevel = "MBCTL_LOG_LEVEL"

var logger = zerolog.Nop()

// configureLogger sends diagnostics to w. Command output never goes through
// the logger.
func configureLogger(w io.Writer) {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}
	if lvl, ok := parseLevel(os.Getenv(envLogLevel)); ok {
		level = lvl
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	logger = zerolog.New(output).Level(level).With().Timestamp().Str("app", "mbctl").Logger()
	log.Logger = logger
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
