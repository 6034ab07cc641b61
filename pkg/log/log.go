package log

import (
	"io"
	"nomadoctor/internal/config"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a new zerolog.Logger based on the provided configuration.
// Backups may be printed to stdout, so "stderr" is the usual choice there.
func New(cfg config.LogConfig) zerolog.Logger {
	var writer io.Writer
	switch strings.ToLower(cfg.Path) {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(writer).With().Timestamp().Logger().Level(level)
}
