package main

import (
	"fmt"
	"os"

	"github.com/sgbank/account-ledger/infra"
	infraeventbus "github.com/sgbank/account-ledger/infra/eventbus"
	"github.com/sgbank/account-ledger/infra/initializer"
	"github.com/sgbank/account-ledger/infra/repository/postgres"
	"github.com/sgbank/account-ledger/pkg/config"
	"github.com/sgbank/account-ledger/pkg/eventbus"
	"github.com/sgbank/account-ledger/pkg/service/ledger"
	"github.com/sgbank/account-ledger/webapi"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	logger := initializer.SetupLogger(&config.Log{})

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	logger = initializer.SetupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}

	store := postgres.New(db)
	if err := store.Migrate(); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		return err
	}

	var publisher eventbus.Publisher = infraeventbus.NewMemoryPublisher()
	if cfg.Kafka.Enabled {
		kafkaPub := infraeventbus.NewKafkaPublisher(cfg.Kafka.Brokers, logger)
		defer kafkaPub.Close() //nolint:errcheck
		publisher = kafkaPub
	}

	svc := ledger.New(store, publisher, logger, cfg.Ledger.MaxAttempts)
	app := webapi.NewApp(svc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}
