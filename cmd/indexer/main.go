// Command indexer builds the lookup indexes on an already imported words
// table. Use it after `importer --skip-indexes`. Index builds run with the
// import session settings (maintenance_work_mem).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/wiktapi/internal/adapter/postgres"
	"github.com/heartmarshall/wiktapi/internal/adapter/postgres/words"
	"github.com/heartmarshall/wiktapi/internal/app"
	"github.com/heartmarshall/wiktapi/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("build indexes failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	pool, err := postgres.NewImportPool(ctx, cfg.Database, cfg.Import)
	if err != nil {
		return err
	}
	defer pool.Close()

	schema, err := words.NewSchema(pool)
	if err != nil {
		return err
	}
	defer schema.Close()

	start := time.Now()
	logger.Info("building indexes", slog.String("maintenance_work_mem", cfg.Import.MaintenanceWorkMem))
	if err := schema.BuildIndexes(ctx); err != nil {
		return err
	}

	version, err := schema.Version(ctx)
	if err != nil {
		return err
	}
	logger.Info("indexes built",
		slog.Int64("schema_version", version),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
