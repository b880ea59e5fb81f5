// Package query assembles count and data statements for list requests and runs
// them against an Executor.
package query

import (
	"context"

	"github.com/Masterminds/squirrel"
)

// Statement is SQL text plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Executor runs statements against a store. Implementations own pooling,
// timeouts and cancellation.
type Executor interface {
	// Count runs a statement returning a single integer.
	Count(ctx context.Context, st Statement) (int64, error)
	// Fetch runs a statement and returns rows keyed by column name.
	Fetch(ctx context.Context, st Statement) ([]map[string]any, error)
}

// Dialect captures how statements are written for one backend.
type Dialect struct {
	Name        string
	Placeholder squirrel.PlaceholderFormat
	// FoldCaseSearch makes search use ILIKE.
	FoldCaseSearch bool
	// Inline renders values as literals for backends without parameter binding.
	Inline bool
}

var (
	Postgres   = Dialect{Name: "postgres", Placeholder: squirrel.Dollar, FoldCaseSearch: true}
	SQLite     = Dialect{Name: "sqlite", Placeholder: squirrel.Question}
	ClickHouse = Dialect{Name: "clickhouse", Placeholder: squirrel.Question, Inline: true}
)

// DialectByName looks up one of the built-in dialects.
func DialectByName(name string) (Dialect, bool) {
	switch name {
	case Postgres.Name:
		return Postgres, true
	case SQLite.Name:
		return SQLite, true
	case ClickHouse.Name:
		return ClickHouse, true
	}
	return Dialect{}, false
}
