// Command ingest loads Statcast-style CSV exports into the pitch event
// store. It can also generate a synthetic sample CSV for local smoke
// testing.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitchmix/pitchmix/internal/adapters/repository"
	"github.com/pitchmix/pitchmix/internal/config"
	"github.com/pitchmix/pitchmix/internal/etl"
	"github.com/pitchmix/pitchmix/pkg/logger"
)

// Sample generation defaults.
const (
	defaultSampleRows     = 25_000
	defaultSamplePitchers = 6
)

func main() {
	var (
		dir        = flag.String("dir", "", "CSV directory (overrides config)")
		dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
		workers    = flag.Int("workers", 0, "Normalize worker count (overrides config)")
		sample     = flag.String("generate-sample", "", "Write a synthetic CSV to this path and exit")
		sampleRows = flag.Int("sample-rows", defaultSampleRows, "Rows to generate with -generate-sample")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Seed for -generate-sample")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("ingest")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *sample != "" {
		cfg := etl.GeneratorConfig{
			Pitchers: defaultSamplePitchers,
			Rows:     *sampleRows,
			Seed:     *seed,
		}
		if err := etl.WriteSampleCSV(*sample, cfg); err != nil {
			log.Error(ctx, "sample generation failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "sample csv written",
			logger.String("path", *sample),
			logger.Int("rows", *sampleRows),
		)
		return
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	if *dir != "" {
		cfg.CSVDir = *dir
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *workers > 0 {
		cfg.WorkerCount = *workers
	}

	store, err := repository.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	runner := etl.NewRunner(store, cfg.CSVDir,
		etl.WithQueueSize(cfg.QueueSize),
		etl.WithWorkerCount(cfg.WorkerCount),
		etl.WithBatchSize(cfg.BatchSize),
		etl.WithLogger(log),
	)
	stats, err := runner.Run(ctx)
	if err != nil {
		log.Error(ctx, "ingestion run failed", logger.Error(err))
		os.Exit(1)
	}
	if stats.FilesFound > 0 && stats.FilesProcessed == 0 {
		log.Error(ctx, "no files could be processed")
		os.Exit(1)
	}
}
