package dbrouter

import (
	"context"

	"crudcenter/internal/infrastructure/storage/clickhouse"
	"crudcenter/internal/infrastructure/storage/postgres"
	"crudcenter/internal/infrastructure/storage/sqlstore"
)

// Driver names; they double as query dialect names.
const (
	DriverPostgres   = "postgres"
	DriverSQLite     = sqlstore.DriverSQLite
	DriverClickHouse = clickhouse.DriverName
)

// DefaultOpeners returns openers for every supported driver.
// pool shapes PostgreSQL pools; its DSN is replaced per connection.
func DefaultOpeners(pool postgres.PoolConfig) map[string]Opener {
	return map[string]Opener{
		DriverPostgres: func(ctx context.Context, c Connection) (Conn, error) {
			cfg := pool
			cfg.DSN = c.DSN
			return postgres.Open(ctx, cfg)
		},
		DriverSQLite: func(ctx context.Context, c Connection) (Conn, error) {
			return sqlstore.Open(ctx, sqlstore.DriverSQLite, c.DSN)
		},
		DriverClickHouse: func(ctx context.Context, c Connection) (Conn, error) {
			cfg, err := clickhouse.ParseDSN(c.DSN)
			if err != nil {
				return nil, err
			}
			return clickhouse.Open(ctx, cfg)
		},
	}
}
