package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/insights/internal/config"
)

// openPool opens a *sqlx.DB for driver, applies pool limits from cfg and
// pings it within cfg.PingTimeout (or fallback when unset).
func openPool(driver string, cfg config.DatabaseConfig, fallback time.Duration) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
