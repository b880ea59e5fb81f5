package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crudcenter/internal/domain/query"
	"crudcenter/pkg/logger"
)

// Compile-time check that Executor implements query.Executor.
var _ query.Executor = (*Executor)(nil)

// Querier is the subset of pgxpool.Pool the executor needs.
// pgxmock pools satisfy it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Executor runs list statements on PostgreSQL.
type Executor struct {
	q Querier
}

// NewExecutor wraps an existing pool.
func NewExecutor(q Querier) *Executor {
	return &Executor{q: q}
}

// Open creates a pool and wraps it.
func Open(ctx context.Context, cfg PoolConfig) (*Executor, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewExecutor(pool), nil
}

// Count runs a count(*) statement.
func (e *Executor) Count(ctx context.Context, st query.Statement) (int64, error) {
	var total int64
	if err := pgxscan.Get(ctx, e.q, &total, st.SQL, st.Args...); err != nil {
		return 0, fmt.Errorf("postgres count: %w", err)
	}
	return total, nil
}

// Fetch runs a data statement and returns rows keyed by column name.
func (e *Executor) Fetch(ctx context.Context, st query.Statement) ([]map[string]any, error) {
	var rows []map[string]any
	if err := pgxscan.Select(ctx, e.q, &rows, st.SQL, st.Args...); err != nil {
		return nil, fmt.Errorf("postgres fetch: %w", err)
	}

	for _, row := range rows {
		for col, v := range row {
			row[col] = normalize(v)
		}
	}

	logger.Debug(ctx, "postgres fetch", "rows", len(rows))
	return rows, nil
}

// Ping checks the connection.
func (e *Executor) Ping(ctx context.Context) error {
	return e.q.Ping(ctx)
}

// Close releases the pool.
func (e *Executor) Close() {
	e.q.Close()
}

// Stats reports pool statistics when the executor owns a real pool.
func (e *Executor) Stats() (PoolStats, bool) {
	if p, ok := e.q.(*Pool); ok {
		return p.Stats(), true
	}
	return PoolStats{}, false
}

// normalize turns driver-level values into JSON-friendly ones.
func normalize(v any) any {
	switch x := v.(type) {
	case [16]byte:
		return uuid.UUID(x).String()
	case driver.Valuer:
		// numeric and other pgtype values
		if val, err := x.Value(); err == nil {
			return val
		}
	}
	return v
}
