// Package persist keeps level revisions in PostgreSQL.
package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/brickrun/platformer/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// DB is the connection pool shared by the level repository.
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// Open connects, checks the connection and brings the schema up to date.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "platformer"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	db := &DB{Pool: pool, log: log}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	version, err := db.Migrate(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database ready",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int64("schema_version", version))
	return db, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
