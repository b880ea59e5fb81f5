package query

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/paging"
	"crudcenter/pkg/logger"
)

var tracer = otel.Tracer("crudcenter/query")

// Page is one page of a list result.
type Page struct {
	Records []map[string]any
	Total   int64
	Pager   paging.Pager
}

// Info returns the page metadata.
func (p Page) Info() paging.PageInfo {
	return paging.NewPageInfo(p.Total, p.Pager)
}

// Assembler runs list requests against one executor.
// It is stateless beyond its configuration and safe for concurrent use.
type Assembler struct {
	exec    Executor
	dialect Dialect
}

// NewAssembler creates an Assembler.
func NewAssembler(exec Executor, dialect Dialect) *Assembler {
	return &Assembler{exec: exec, dialect: dialect}
}

// Dialect returns the dialect statements are rendered for.
func (a *Assembler) Dialect() Dialect { return a.dialect }

// Plan renders the statements without running them.
func (a *Assembler) Plan(req Request) (Plan, error) {
	return Build(a.dialect, req)
}

// List counts matching rows, then fetches the page. The data statement is
// never issued when the count is zero.
func (a *Assembler) List(ctx context.Context, req Request) (Page, error) {
	plan, err := Build(a.dialect, req)
	if err != nil {
		return Page{}, err
	}

	ctx, span := tracer.Start(ctx, "query.list",
		trace.WithAttributes(
			attribute.String("db.system", a.dialect.Name),
			attribute.String("db.table", req.Table),
			attribute.Int("page.limit", req.Pager.Limit),
			attribute.Int("page.offset", req.Pager.Offset),
		))
	defer span.End()

	log := logger.FromContext(ctx).WithComponent("query")

	total, err := a.exec.Count(ctx, plan.Count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return Page{}, executorError("count", err)
	}
	span.SetAttributes(attribute.Int64("result.total", total))

	page := Page{Records: []map[string]any{}, Total: total, Pager: req.Pager}
	if total == 0 {
		log.Debugw("list: no matching rows", "table", req.Table, "sql", plan.Count.SQL)
		return page, nil
	}

	rows, err := a.exec.Fetch(ctx, plan.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return Page{}, executorError("fetch", err)
	}
	if rows != nil {
		page.Records = rows
	}

	log.Debugw("list",
		"table", req.Table,
		"total", total,
		"returned", len(page.Records),
		"sql", plan.Data.SQL,
	)
	return page, nil
}

func executorError(phase string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewDatabase(fmt.Errorf("%s: %w", phase, err))
}
