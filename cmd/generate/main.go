package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nimasrn/transaction-eda/internal/config"
	"github.com/nimasrn/transaction-eda/internal/generator"
	"github.com/nimasrn/transaction-eda/pkg/prom"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.Load(config.EnvPathFromArgs(os.Args)); err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	cfg := config.Get()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		log.Fatal().Err(err).Msg("Failed to create prometheus metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("path", cfg.DataFile).
		Int("rows", cfg.GeneratorRows).
		Int("batch_size", cfg.GeneratorBatchSize).
		Msg("Generating transactions")

	res, err := generator.Generate(ctx, generator.Options{
		Path:      cfg.DataFile,
		Rows:      cfg.GeneratorRows,
		BatchSize: cfg.GeneratorBatchSize,
		Seed:      cfg.GeneratorSeed,
		Progress: func(written, total int) {
			log.Debug().Int("written", written).Int("total", total).Msg("Batch written")
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate data")
	}

	if res.Skipped {
		log.Info().
			Str("path", res.Path).
			Int64("rows", res.Rows).
			Msg("Data file already exists, skipping generation")
	} else {
		log.Info().
			Str("path", res.Path).
			Int64("rows", res.Rows).
			Dur("duration", res.Duration).
			Msg("Successfully created data file")
	}

	if err := prom.WriteTextfile(cfg.MetricsPath("generate")); err != nil {
		log.Warn().Err(err).Msg("Failed to write metrics textfile")
	}
}
