package main

import (
	"os"

	"github.com/nimasrn/transaction-eda/internal/config"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/pg"
)

// main applies the ledger migrations for the configured driver.
//
//	cli --env=.env
func main() {
	err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Fatal(err)
	}
	cfg := config.Get()

	switch cfg.LedgerDriver {
	case config.LedgerDriverNone:
		logger.Info("ledger disabled, nothing to migrate")
	case config.LedgerDriverPostgres:
		pgConf := pg.Config{
			User:     cfg.PostgresUser,
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			Password: cfg.PostgresPassword,
			Database: cfg.PostgresDatabase,
		}
		if err := pg.MigratePostgres(pgConf); err != nil {
			logger.Fatal(err, "driver", cfg.LedgerDriver)
		}
	default:
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			logger.Fatal(err)
		}
		db, err := pg.CreateSQLite(cfg.SqlitePath(), false)
		if err != nil {
			logger.Fatal(err, "path", cfg.SqlitePath())
		}
		if err := pg.MigrateGorm(db, pg.DialectSqlite); err != nil {
			logger.Fatal(err, "path", cfg.SqlitePath())
		}
		pg.Wrap(db).Close()
	}
}
