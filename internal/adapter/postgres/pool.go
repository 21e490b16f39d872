package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wiktapi/internal/config"
)

// NewPool creates the serving connection pool configured from DatabaseConfig.
// It pings the database so an unreachable store fails at startup.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := parsePoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	return connect(ctx, poolCfg)
}

// NewImportPool creates a pool for bulk loading. Every connection runs with
// the configured synchronous_commit level and maintenance_work_mem, so both
// COPY batches and the index build use them.
func NewImportPool(ctx context.Context, cfg config.DatabaseConfig, imp config.ImportConfig) (*pgxpool.Pool, error) {
	poolCfg, err := parsePoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	settings := [][2]string{
		{"synchronous_commit", imp.SynchronousCommit},
		{"maintenance_work_mem", imp.MaintenanceWorkMem},
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for _, kv := range settings {
			if _, err := conn.Exec(ctx, "SELECT set_config($1, $2, false)", kv[0], kv[1]); err != nil {
				return fmt.Errorf("set %s: %w", kv[0], err)
			}
		}
		return nil
	}

	return connect(ctx, poolCfg)
}

func parsePoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	return poolCfg, nil
}

func connect(ctx context.Context, poolCfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
