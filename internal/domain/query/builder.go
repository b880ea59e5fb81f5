package query

import (
	"github.com/Masterminds/squirrel"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/filter"
	"crudcenter/internal/domain/paging"
)

// Request is everything needed to list one page.
type Request struct {
	// Table is the FROM expression. It may be a join and is used verbatim.
	Table  string
	Fields []string
	Where  filter.Where
	Search filter.Search
	Order  paging.OrderSpec
	Pager  paging.Pager
	// Prefix qualifies filter, search and order columns with a table alias.
	Prefix string
}

// Plan holds the two statements of a list request.
type Plan struct {
	Count Statement
	Data  Statement
}

// Build renders the count and data statements. Identical inputs always yield
// identical statements.
func Build(d Dialect, req Request) (Plan, error) {
	if req.Table == "" {
		return Plan{}, apperror.NewValidation("table expression is required")
	}
	if len(req.Fields) == 0 {
		return Plan{}, apperror.NewValidation("at least one field must be selected")
	}
	if req.Pager.Limit < 1 || req.Pager.Offset < 0 {
		return Plan{}, apperror.NewInvalidPage(req.Pager.Page(), req.Pager.Limit)
	}

	pred, err := predicate(d, req)
	if err != nil {
		return Plan{}, err
	}

	placeholder := d.Placeholder
	if d.Inline || placeholder == nil {
		placeholder = squirrel.Question
	}
	sb := squirrel.StatementBuilder.PlaceholderFormat(placeholder)

	countSQL, countArgs, err := sb.Select("count(*)").
		From(req.Table).
		Where(pred).
		ToSql()
	if err != nil {
		return Plan{}, apperror.NewInternal(err)
	}

	data := sb.Select(req.Fields...).
		From(req.Table).
		Where(pred)
	if len(req.Order) > 0 {
		data = data.OrderBy(req.Order.Clauses(req.Prefix)...)
	}
	dataSQL, dataArgs, err := data.
		Limit(uint64(req.Pager.Limit)).
		Offset(uint64(req.Pager.Offset)).
		ToSql()
	if err != nil {
		return Plan{}, apperror.NewInternal(err)
	}

	return Plan{
		Count: Statement{SQL: countSQL, Args: countArgs},
		Data:  Statement{SQL: dataSQL, Args: dataArgs},
	}, nil
}

func predicate(d Dialect, req Request) (squirrel.Sqlizer, error) {
	where := req.Where
	if req.Prefix != "" {
		where = where.WithPrefix(req.Prefix)
	}
	if !req.Search.IsEmpty() {
		where = where.WithSearch(req.Search.CaseInsensitive(d.FoldCaseSearch))
	}
	if !d.Inline {
		return where, nil
	}

	text, err := where.LiteralPredicate()
	if err != nil {
		return nil, err
	}
	return squirrel.Expr(text), nil
}
