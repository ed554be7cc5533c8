package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/insights/internal/config"
)

//go:embed migrations/001_accounts.sql
var accountsSchema string

// NewMySQLConnection opens the accounts database (source, seed target and ingest sink).
func NewMySQLConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("empty MySQL DSN")
	}
	return openPool("mysql", cfg, 5*time.Second)
}

// Migrate creates the customer_accounts table if it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, accountsSchema); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}
