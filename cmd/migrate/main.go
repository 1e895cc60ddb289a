package main

import (
	"context"
	"os"

	"printshop/internal/config"
	"printshop/internal/db"
	"printshop/internal/logging"
	"printshop/internal/migrate"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("migrate", "info", "text").WithError(err).Fatal("load config")
	}
	logger := logging.New("migrate", cfg.LogLevel, cfg.LogFormat)

	if cfg.LedgerDSN == "" {
		logger.Error("LEDGER_DSN is not set; nothing to migrate")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.LedgerDSN)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	logger.Info("migrations applied")
}
