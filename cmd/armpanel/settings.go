package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gwillem/armpanel/pkg/client"
	"github.com/gwillem/armpanel/pkg/robot"
)

// loadSettings reads the config file and applies environment and flag
// overrides, in that order.
func loadSettings() (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", opts.Config, err)
	}
	return cfg, nil
}

// newLogger builds a JSON logger at the given level ("debug", "info", ...).
func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// rotatingLog returns a size-rotated log file. The panel owns the terminal,
// so it never logs to stdout.
func rotatingLog(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

// newCLIClient builds a client for one-shot commands, logging to stderr.
func newCLIClient() (*client.Client, *slog.Logger, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.LogLevel, os.Stderr)
	return client.New(cfg.BaseURL, client.WithLogger(logger)), logger, nil
}
