// Package logging builds the zerolog logger shared by modlog packages.
//
// Libraries take a zerolog.Logger at construction and never configure
// logging themselves. The CLI builds one logger from settings plus the
// environment overrides below.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "MODLOG_LOG_LEVEL"
	EnvLogNoColor = "MODLOG_LOG_NOCOLOR"
	EnvLogJSON    = "MODLOG_LOG_JSON"
)

// Config describes how the logger is built.
type Config struct {
	Level   zerolog.Level
	NoColor bool
	JSON    bool
	Out     io.Writer
}

// DefaultConfig logs warnings and above to stderr through a console writer.
func DefaultConfig() Config {
	return Config{
		Level: zerolog.WarnLevel,
		Out:   os.Stderr,
	}
}

// New builds a logger from cfg after applying environment overrides.
func New(cfg Config) zerolog.Logger {
	applyEnvOverrides(&cfg)
	if cfg.Out == nil {
		cfg.Out = os.Stderr
	}

	out := cfg.Out
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        cfg.Out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).Level(cfg.Level).With().Timestamp().Str("app", "modlog").Logger()
}

// LevelFromName maps a settings level name to a zerolog level. Unknown names
// report ok=false.
func LevelFromName(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.WarnLevel, false
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
		return zerolog.WarnLevel, false
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := LevelFromName(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		cfg.JSON = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
