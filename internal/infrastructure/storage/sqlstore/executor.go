// Package sqlstore runs list statements through database/sql drivers via sqlx.
// The embedded sqlite driver backs local development and end-to-end tests; the
// clickhouse package opens the analytics store through the same executor.
package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"crudcenter/internal/domain/query"
	"crudcenter/pkg/logger"
)

// Compile-time check that Executor implements query.Executor.
var _ query.Executor = (*Executor)(nil)

// DriverSQLite is the database/sql driver name registered by modernc.org/sqlite.
const DriverSQLite = "sqlite"

// Executor runs statements on a *sqlx.DB.
type Executor struct {
	db *sqlx.DB
}

// New wraps an open database.
func New(db *sqlx.DB) *Executor {
	return &Executor{db: db}
}

// Open connects and pings. sqlite gets a single connection so that
// in-memory databases are shared by every statement.
func Open(ctx context.Context, driver, dsn string) (*Executor, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return New(db), nil
}

// DB exposes the underlying handle, e.g. for seeding fixtures.
func (e *Executor) DB() *sqlx.DB { return e.db }

// Count runs a count(*) statement.
func (e *Executor) Count(ctx context.Context, st query.Statement) (int64, error) {
	var total int64
	if err := e.db.GetContext(ctx, &total, st.SQL, st.Args...); err != nil {
		return 0, fmt.Errorf("sqlstore count: %w", err)
	}
	return total, nil
}

// Fetch runs a data statement and returns rows keyed by column name.
func (e *Executor) Fetch(ctx context.Context, st query.Statement) ([]map[string]any, error) {
	rows, err := e.db.QueryxContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore fetch: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("sqlstore scan: %w", err)
		}
		for col, v := range row {
			if b, ok := v.([]byte); ok {
				row[col] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore rows: %w", err)
	}

	logger.Debug(ctx, "sqlstore fetch", "rows", len(out))
	return out, nil
}

// Ping checks the connection.
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close closes the database.
func (e *Executor) Close() {
	if err := e.db.Close(); err != nil {
		logger.Default().Warnw("sqlstore close failed", "error", err)
	}
}
