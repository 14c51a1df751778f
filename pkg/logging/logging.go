// Package logging sets up the global zerolog logger used by every sicmerge package
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ChrisMcGann/sicmerge/pkg/config"
)

// Init configures the global logger. Console output goes to console; quiet
// discards everything and debug adds the caller to each event.
func Init(cfg config.LogConfig, quiet, debug bool, console io.Writer) zerolog.Logger {
	if quiet {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		logger := zerolog.New(io.Discard)
		log.Logger = logger
		return logger
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	}

	var writers []io.Writer
	switch strings.ToLower(cfg.Mode) {
	case "file":
		writers = append(writers, fileWriter(cfg, console))
	case "both":
		writers = append(writers, consoleWriter(console, cfg.JSON), fileWriter(cfg, console))
	default:
		writers = append(writers, consoleWriter(console, cfg.JSON))
	}

	output := writers[0]
	if len(writers) > 1 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(output).With().Timestamp()
	if debug {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	log.Logger = logger
	return logger
}

func consoleWriter(out io.Writer, useJSON bool) io.Writer {
	if useJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// fileWriter returns a rotating log file, or the console when its directory
// cannot be created
func fileWriter(cfg config.LogConfig, fallback io.Writer) io.Writer {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return fallback
	}

	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   true,
	}
}

// ParseLevel converts a level name to a zerolog level; empty or unknown names mean info
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zerolog.WarnLevel
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
