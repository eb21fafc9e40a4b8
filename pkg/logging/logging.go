package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a slog level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format is the log output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "REQMATCH_LOG_LEVEL"
	EnvFormat = "REQMATCH_LOG_FORMAT"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level written.
	Level Level

	// Format is text or json.
	Format Format

	// Output defaults to os.Stderr.
	Output io.Writer

	// AddSource adds file:line to every record.
	AddSource bool
}

// DefaultConfig returns info-level text logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// FromEnv returns DefaultConfig overridden by REQMATCH_LOG_LEVEL and
// REQMATCH_LOG_FORMAT as reported by getenv. A nil getenv uses os.Getenv.
func FromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	if v := getenv(EnvLevel); v != "" {
		cfg.Level = ParseLevel(v)
	}
	if v := getenv(EnvFormat); v != "" {
		cfg.Format = ParseFormat(v)
	}
	return cfg
}

// Handler builds the slog.Handler described by cfg.
func (cfg Config) Handler() slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	if cfg.Format == FormatJSON {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	return slog.New(cfg.Handler())
}

// NewWithLevel creates a text logger on stderr at level.
func NewWithLevel(level Level) *slog.Logger {
	return New(Config{Level: level, Format: FormatText})
}

// Nop returns a logger that discards all output.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel parses "debug", "info", "warn"/"warning" or "error" in any
// case. Anything else is LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseFormat parses "text" or "json" in any case. Anything else is
// FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
