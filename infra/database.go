// Package infra wires external collaborators: the database connection and
// the concrete store and publisher implementations in its subpackages.
package infra

import (
	"errors"
	"time"

	"github.com/sgbank/account-ledger/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens a Postgres connection pool for the given
// environment. Development gets verbose SQL logging, everything else is
// silent.
func NewDBConnection(cfg *config.DB, appEnv string) (*gorm.DB, error) {
	if cfg == nil || cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	conn, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return conn, nil
}
