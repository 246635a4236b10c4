// Package initializer sets up process-wide infrastructure that must exist
// before anything else runs.
package initializer

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sgbank/account-ledger/pkg/config"
)

// SetupLogger builds the application slog.Logger on a charmbracelet/log
// backend and installs it as the default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(os.Stdout, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
