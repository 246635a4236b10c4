// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads a .env file when present and processes the environment into
// an App config.
func Load(logger *slog.Logger) (*App, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("config loaded",
		"env", cfg.Env,
		"server_port", cfg.Server.Port,
		"db", maskValue(cfg.DB.Url),
		"kafka_enabled", cfg.Kafka.Enabled,
		"ledger_max_attempts", cfg.Ledger.MaxAttempts,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
