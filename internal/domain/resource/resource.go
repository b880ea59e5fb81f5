// Package resource declares the listable tables of the user center and asset
// center and turns raw list parameters into query requests for them.
package resource

import (
	"regexp"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/filter"
	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/query"
)

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// SoftDeleteColumn marks deleted rows; live rows have it NULL.
const SoftDeleteColumn = "deleted_at"

// Resource describes one listable table.
type Resource struct {
	// Name is the URL segment, e.g. "vehicle_brands".
	Name string
	// Connection names the database the table lives in.
	Connection string
	// Table is the FROM expression.
	Table string
	// Prefix qualifies columns when Table is a join.
	Prefix string
	Schema *filter.Schema
	// Fields are the selectable columns in output order.
	Fields       []string
	SearchFields []string
	OrderFields  []string
	// DefaultOrder applies when a request names no usable order token.
	DefaultOrder []string
	// MaxLimit caps the page size; 0 means no cap.
	MaxLimit   int
	SoftDelete bool
}

// ListParams are the raw list parameters of one request.
type ListParams struct {
	Page    int
	Size    int
	OrderBy []string
	Search  string
	Fields  []string
	Filters filter.Values
}

// Request resolves list parameters into a query request. mode decides how
// unknown order tokens and selected fields are treated.
func (r *Resource) Request(p ListParams, mode paging.Mode) (query.Request, error) {
	pager, err := paging.NewPager(p.Page, p.Size, r.MaxLimit)
	if err != nil {
		return query.Request{}, err
	}

	where, err := r.Schema.Resolve(p.Filters)
	if err != nil {
		return query.Request{}, err
	}
	if r.SoftDelete {
		where = where.And(filter.Clause{
			Field:    SoftDeleteColumn,
			Column:   SoftDeleteColumn,
			Type:     filter.Integer,
			Operator: filter.IsNull,
		})
	}

	order, err := paging.ResolveOrder(p.OrderBy, r.OrderFields, mode)
	if err != nil {
		return query.Request{}, err
	}
	if len(order) == 0 {
		// DefaultOrder was checked at registration
		order, _ = paging.ResolveOrder(r.DefaultOrder, r.OrderFields, paging.Strict)
	}

	fields, err := paging.ResolveFields(p.Fields, r.Fields, mode)
	if err != nil {
		return query.Request{}, err
	}

	return query.Request{
		Table:  r.Table,
		Fields: fields,
		Where:  where,
		Search: filter.NewSearch(p.Search, r.SearchFields...),
		Order:  order,
		Pager:  pager,
		Prefix: r.Prefix,
	}, nil
}

func (r *Resource) validate() error {
	fail := func(msg string) *apperror.AppError {
		return apperror.NewSchema(msg).WithDetail("resource", r.Name)
	}

	switch {
	case !namePattern.MatchString(r.Name):
		return fail("invalid resource name")
	case r.Connection == "":
		return fail("resource has no connection")
	case r.Table == "":
		return fail("resource has no table")
	case r.Schema == nil:
		return fail("resource has no filter schema")
	case len(r.Fields) == 0:
		return fail("resource selects no fields")
	case r.MaxLimit < 0:
		return fail("max limit must not be negative")
	case r.Prefix != "" && !columnPattern.MatchString(r.Prefix):
		return fail("invalid table prefix")
	}

	for _, group := range [][]string{r.Fields, r.SearchFields, r.OrderFields} {
		for _, col := range group {
			if !columnPattern.MatchString(col) {
				return fail("invalid column").WithDetail("column", col)
			}
		}
	}

	if _, err := paging.ResolveOrder(r.DefaultOrder, r.OrderFields, paging.Strict); err != nil {
		return fail("default order is not orderable").WithCause(err)
	}
	return nil
}
