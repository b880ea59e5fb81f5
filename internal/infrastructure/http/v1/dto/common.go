// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"crudcenter/internal/domain/filter"
	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/query"
	"crudcenter/internal/domain/resource"
)

// --- List ---

// ListQuery holds the paging parameters of a list request. Filters are
// bound separately from `field__op=value` parameters.
type ListQuery struct {
	Page    *int     `form:"page"`
	Size    *int     `form:"size"`
	OrderBy []string `form:"order_by"`
	Search  string   `form:"search"`
	Fields  []string `form:"fields"`
}

// Params converts the query into resource list parameters. Missing page and
// size fall back to 1 and defaultSize; explicit values are kept for validation.
func (q ListQuery) Params(defaultSize int, filters filter.Values) resource.ListParams {
	p := resource.ListParams{
		Page:    1,
		Size:    defaultSize,
		OrderBy: paging.SplitTokens(q.OrderBy...),
		Search:  q.Search,
		Fields:  paging.SplitTokens(q.Fields...),
		Filters: filters,
	}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.Size != nil {
		p.Size = *q.Size
	}
	return p
}

// ListResponse is the page envelope.
type ListResponse struct {
	Records    []map[string]any `json:"records"`
	TotalCount int64            `json:"total_count"`
	PageInfo   paging.PageInfo  `json:"page_info"`
}

// NewListResponse creates a ListResponse from a query page.
func NewListResponse(p query.Page) ListResponse {
	records := p.Records
	if records == nil {
		records = []map[string]any{}
	}
	return ListResponse{
		Records:    records,
		TotalCount: p.Total,
		PageInfo:   p.Info(),
	}
}

// --- Schema ---

// FieldResponse describes one filterable field.
type FieldResponse struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Operators  []string `json:"operators"`
	EnumValues []string `json:"enum_values,omitempty"`
}

// ResourceResponse describes what a resource accepts.
type ResourceResponse struct {
	Name         string          `json:"name"`
	Connection   string          `json:"connection"`
	Filters      []FieldResponse `json:"filters"`
	Fields       []string        `json:"fields"`
	SearchFields []string        `json:"search_fields"`
	OrderFields  []string        `json:"order_fields"`
	DefaultOrder []string        `json:"default_order"`
	MaxLimit     int             `json:"max_limit"`
}

// FromResource creates ResourceResponse from a resource definition.
func FromResource(r *resource.Resource) ResourceResponse {
	resp := ResourceResponse{
		Name:         r.Name,
		Connection:   r.Connection,
		Fields:       r.Fields,
		SearchFields: nonNil(r.SearchFields),
		OrderFields:  nonNil(r.OrderFields),
		DefaultOrder: nonNil(r.DefaultOrder),
		MaxLimit:     r.MaxLimit,
	}
	for _, f := range r.Schema.Fields() {
		ops := make([]string, len(f.Operators))
		for i, op := range f.Operators {
			ops[i] = string(op)
		}
		resp.Filters = append(resp.Filters, FieldResponse{
			Name:       f.Name,
			Type:       string(f.Type),
			Operators:  ops,
			EnumValues: f.EnumValues,
		})
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
