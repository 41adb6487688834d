package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nimasrn/transaction-eda/internal/config"
	"github.com/nimasrn/transaction-eda/internal/query"
	"github.com/nimasrn/transaction-eda/internal/report"
	"github.com/nimasrn/transaction-eda/internal/repository"
	"github.com/nimasrn/transaction-eda/internal/services"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/pg"
	"github.com/nimasrn/transaction-eda/pkg/prom"
	"github.com/nimasrn/transaction-eda/pkg/redis"
	"github.com/pkg/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Fatal(err)
	}
}

func run() error {
	if err := config.Load(config.EnvPathFromArgs(os.Args)); err != nil {
		return err
	}
	cfg := config.Get()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("invalid LOG_LEVEL, keeping default", "level", cfg.LogLevel, "error", err)
	}
	logger.Info("starting report", "version", version, "commit", commit, "date", date)

	if err := query.CheckSource(cfg.DataFile); err != nil {
		if errors.Is(err, query.ErrSourceNotFound) {
			fmt.Printf("Error: Data file '%s' not found.\n", cfg.DataFile)
			fmt.Println("Please run the generator first: go run ./cmd/generate")
			return nil
		}
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		return errors.Wrap(err, "create prometheus metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := query.Open(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	var querier services.Querier = engine
	if cfg.RedisAddr != "" {
		store, err := redis.NewRedisAdapter("default", cfg.RedisKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Warn("query cache unavailable, running uncached", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer store.Close()
			ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
			querier = query.NewCachedEngine(engine, store, cfg.DataFile, ttl)
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", cfg.OutputDir)
	}

	runs, closeLedger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	reporter := report.New(report.Options{
		OutputDir:     cfg.OutputDir,
		TopCategories: cfg.ReportTopCategories,
	})
	service := services.NewReportService(querier, reporter, runs, cfg.DataFile)

	specs := query.Reports(cfg.DataFile, cfg.ReportIncludeSample, cfg.ReportSamplePercent)
	_, runErr := service.RunAll(ctx, specs)

	if err := prom.WriteTextfile(cfg.MetricsPath("report")); err != nil {
		logger.Warn("failed to write metrics textfile", "error", err)
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("all reports complete", "reports", len(specs), "dir", cfg.OutputDir)
	return nil
}

// openLedger returns the run repository for the configured driver, or a nil
// repository when the ledger is disabled.
func openLedger(cfg *config.Config) (services.RunRepository, func(), error) {
	noop := func() {}
	debug := cfg.AppEnv == "dev" && cfg.LogLevel == "debug"

	switch cfg.LedgerDriver {
	case config.LedgerDriverNone:
		return nil, noop, nil
	case config.LedgerDriverPostgres:
		pgConf := pg.Config{
			User:     cfg.PostgresUser,
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			Password: cfg.PostgresPassword,
			Database: cfg.PostgresDatabase,
		}
		if err := pg.MigratePostgres(pgConf); err != nil {
			return nil, noop, err
		}
		gdb, err := pg.Create(pgConf, debug)
		if err != nil {
			return nil, noop, errors.Wrap(err, "connect postgres ledger")
		}
		db := pg.Wrap(gdb)
		return repository.NewReportRunRepository(db), func() { db.Close() }, nil
	default:
		gdb, err := pg.CreateSQLite(cfg.SqlitePath(), debug)
		if err != nil {
			return nil, noop, errors.Wrap(err, "open sqlite ledger")
		}
		if err := pg.MigrateGorm(gdb, pg.DialectSqlite); err != nil {
			return nil, noop, err
		}
		db := pg.Wrap(gdb)
		return repository.NewReportRunRepository(db), func() { db.Close() }, nil
	}
}
