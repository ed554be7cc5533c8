package db

import (
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/insights/internal/config"
)

// NewClickHouseConnection opens the analytics store that can serve as an
// accounts source, e.g. clickhouse://default:@localhost:9000/insights?dial_timeout=5s
func NewClickHouseConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return openPool("clickhouse", cfg, 3*time.Second)
}
