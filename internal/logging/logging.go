// Package logging builds the process logger every component hangs its
// component-tagged sub-logger off.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// FormatJSON emits one JSON object per line, the default for services.
	FormatJSON = "json"
	// FormatConsole emits human-readable lines for interactive use.
	FormatConsole = "console"
)

// Config describes logger runtime configuration.
type Config struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
	Caller     bool   `mapstructure:"caller"`
	Pretty     bool   `mapstructure:"pretty"`
}

// NewLogger constructs the root zerolog logger. An unknown level falls back
// to info rather than failing startup.
func NewLogger(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = timeFormat(cfg)

	ctx := zerolog.New(writerFor(cfg)).Level(levelFor(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func timeFormat(cfg Config) string {
	if cfg.TimeFormat != "" {
		return cfg.TimeFormat
	}
	return time.RFC3339
}

func levelFor(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func writerFor(cfg Config) io.Writer {
	if cfg.Pretty || strings.EqualFold(cfg.Format, FormatConsole) {
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}
	return os.Stdout
}
