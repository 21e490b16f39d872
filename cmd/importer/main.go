// Command importer loads wiktextract JSONL dumps (one file per edition,
// optionally gzipped) into the words table, then builds the indexes.
// The target database is taken from DATABASE_DSN, so pointing it at a
// staging database gives a build-then-swap workflow.
//
// Flags:
//
//	--edition         import only this edition (default: every file in input dir)
//	--input-dir       directory holding <edition>.jsonl[.gz] files
//	--fresh           drop the words table before importing
//	--skip-indexes    leave index creation to the indexer command
//	--dry-run         parse and count without touching the database
//	--remove-sources  delete each source file after a successful import
//	--batch-size      rows per transaction
//	--import-config   path to importer YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/wiktapi/internal/adapter/postgres"
	"github.com/heartmarshall/wiktapi/internal/adapter/postgres/words"
	"github.com/heartmarshall/wiktapi/internal/adapter/redis/wordcache"
	"github.com/heartmarshall/wiktapi/internal/app"
	"github.com/heartmarshall/wiktapi/internal/app/importer"
	"github.com/heartmarshall/wiktapi/internal/app/importer/wiktionary"
	"github.com/heartmarshall/wiktapi/internal/config"
)

// Compile-time interface assertions.
var (
	_ importer.WordWriter    = (*words.Repo)(nil)
	_ importer.SchemaManager = (*words.Schema)(nil)
	_ importer.TxManager     = (*postgres.TxManager)(nil)
)

func main() {
	editionFlag := flag.String("edition", "", "import only this edition (e.g. en)")
	inputDirFlag := flag.String("input-dir", "", "directory with <edition>.jsonl files")
	freshFlag := flag.Bool("fresh", false, "drop the words table before importing")
	skipIndexesFlag := flag.Bool("skip-indexes", false, "do not build indexes after import")
	dryRunFlag := flag.Bool("dry-run", false, "parse files without writing to DB")
	removeFlag := flag.Bool("remove-sources", false, "delete source files after import")
	batchSizeFlag := flag.Int("batch-size", 0, "rows per transaction (default from config)")
	importConfigFlag := flag.String("import-config", "", "path to importer YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	impCfg, err := importer.LoadConfig(*importConfigFlag)
	if err != nil {
		logger.Error("load import config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *editionFlag != "" {
		impCfg.Edition = *editionFlag
	}
	if *inputDirFlag != "" {
		impCfg.InputDir = *inputDirFlag
	}
	if *batchSizeFlag > 0 {
		impCfg.BatchSize = *batchSizeFlag
	}
	impCfg.Fresh = impCfg.Fresh || *freshFlag
	impCfg.SkipIndexes = impCfg.SkipIndexes || *skipIndexesFlag
	impCfg.DryRun = impCfg.DryRun || *dryRunFlag
	impCfg.RemoveSources = impCfg.RemoveSources || *removeFlag

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, appCfg, *impCfg); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, appCfg *config.Config, impCfg importer.Config) error {
	start := time.Now()

	pool, err := postgres.NewImportPool(ctx, appCfg.Database, appCfg.Import)
	if err != nil {
		return err
	}
	defer pool.Close()

	schema, err := words.NewSchema(pool)
	if err != nil {
		return err
	}
	defer schema.Close()

	imp := importer.NewImporter(
		logger,
		impCfg,
		wiktionary.NewNormalizer(),
		postgres.NewTxManager(pool),
		words.New(pool),
		schema,
	)

	res, err := imp.Run(ctx)
	if err != nil {
		return err
	}

	if !impCfg.DryRun {
		total, err := schema.Count(ctx)
		if err != nil {
			return err
		}
		logger.Info("words table",
			slog.Int64("rows", total),
			slog.Int("inserted", res.Inserted),
			slog.Int("merged", res.Merged),
			slog.Int("skipped", res.Skipped),
			slog.Duration("elapsed", time.Since(start)),
		)
		purgeCache(ctx, logger, appCfg.Cache)
	}
	return nil
}

// purgeCache drops cached lookups so the server sees the new data. A failure
// is logged, not fatal: entries expire on their own after the TTL.
func purgeCache(ctx context.Context, logger *slog.Logger, cfg config.CacheConfig) {
	if !cfg.Enabled() {
		return
	}
	rdb, err := wordcache.NewClient(ctx, cfg)
	if err != nil {
		logger.Warn("cache purge skipped", slog.String("error", err.Error()))
		return
	}
	defer rdb.Close()

	n, err := wordcache.New(rdb, cfg.TTL, cfg.KeyPrefix).Purge(ctx)
	if err != nil {
		logger.Warn("cache purge failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("cache purged", slog.Int("keys", n))
}
