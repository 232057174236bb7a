package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridironlab/companion/internal/app"
	"github.com/gridironlab/companion/internal/config"
	"github.com/gridironlab/companion/internal/platform/logging"
)

// One-shot refresh of the player directory, meant to run on a daily
// schedule. A failed run exits non-zero and leaves the previous
// directory contents untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ok := run(ctx, cfg, logger)
	_ = logger.Sync()
	if !ok {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger) bool {
	sync, closeDB, err := app.NewPlayerSync(cfg, logger)
	if err != nil {
		logger.Error("build player sync", "error", err)
		return false
	}
	defer func() {
		if err := closeDB(); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	report, err := sync.Run(ctx)
	if err != nil {
		logger.Error("player sync failed", "error", err)
		return false
	}

	logger.Info("player sync finished",
		"catalog_size", report.CatalogSize,
		"upserted", report.Upserted,
		"skipped", report.Skipped,
		"batches", report.Batches,
	)

	return true
}
