package words

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/wiktapi/internal/adapter/postgres/migrations"
)

// Schema manages the words table and its indexes through goose migrations.
// Migration 1 creates the table, migration 2 builds the indexes, so loading
// can run with only the table in place and index building can be deferred.
type Schema struct {
	pool     *pgxpool.Pool
	db       *sql.DB
	provider *goose.Provider
}

// NewSchema wraps pool for migrations. Index builds inherit the session
// settings of the pool's connections (see postgres.NewImportPool).
func NewSchema(pool *pgxpool.Pool) (*Schema, error) {
	db := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("goose new provider: %w", err)
	}

	return &Schema{pool: pool, db: db, provider: provider}, nil
}

// EnsureTable creates the words table if it does not exist yet.
func (s *Schema) EnsureTable(ctx context.Context) error {
	if _, err := s.provider.UpTo(ctx, migrations.VersionTable); err != nil {
		return fmt.Errorf("create words table: %w", err)
	}
	return nil
}

// BuildIndexes creates every lookup index. It is idempotent.
func (s *Schema) BuildIndexes(ctx context.Context) error {
	if _, err := s.provider.UpTo(ctx, migrations.VersionIndexes); err != nil {
		return fmt.Errorf("build words indexes: %w", err)
	}
	return nil
}

// Reset drops the indexes and the table. Used for full reloads.
func (s *Schema) Reset(ctx context.Context) error {
	if _, err := s.provider.DownTo(ctx, 0); err != nil {
		return fmt.Errorf("drop words table: %w", err)
	}
	return nil
}

// Version returns the applied migration version (0: nothing applied).
func (s *Schema) Version(ctx context.Context) (int64, error) {
	v, err := s.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return v, nil
}

// Count returns the total number of stored rows.
func (s *Schema) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM "+tableName).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// Close releases the database/sql handle. The pool stays open.
func (s *Schema) Close() error {
	return s.db.Close()
}
