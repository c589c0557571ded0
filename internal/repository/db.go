// Package repository persists finished battles in PostgreSQL through pgx.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magefree/battle-engine-go/internal/config"
	"go.uber.org/zap"
)

// DBTX is the subset of pgx shared by pools, connections and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB wraps the connection pool.
type DB struct {
	*pgxpool.Pool
	logger *zap.Logger
}

// NewDB opens and pings a pool for cfg.URL.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger != nil {
		logger.Info("connected to database",
			zap.Int32("max_conns", poolCfg.MaxConns),
			zap.String("host", poolCfg.ConnConfig.Host),
		)
	}
	return &DB{Pool: pool, logger: logger}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS battles (
	id          UUID PRIMARY KEY,
	seed        BIGINT NOT NULL,
	setup       JSONB NOT NULL,
	won         BOOLEAN NOT NULL,
	turns       INTEGER NOT NULL,
	player_hp   INTEGER NOT NULL,
	actions     INTEGER NOT NULL,
	digest      TEXT NOT NULL,
	replay      BYTEA NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS battles_created_at_idx ON battles (created_at DESC);
`

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	if db.logger != nil {
		db.logger.Info("database schema ready")
	}
	return nil
}
