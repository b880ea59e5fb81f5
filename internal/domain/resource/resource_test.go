package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/filter"
	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/query"
)

func TestBuiltin(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"accounts", "companies", "vehicle_brands", "vehicle_trips"}, reg.Names())
	assert.Equal(t, []string{AssetAnalytics, AssetCenter, UserCenter}, reg.Connections())

	res, err := reg.Get("vehicle_brands")
	require.NoError(t, err)
	assert.Equal(t, AssetCenter, res.Connection)

	_, err = reg.Get("users")
	assert.True(t, apperror.IsNotFound(err))
}

func TestResource_Request(t *testing.T) {
	req, err := Accounts.Request(ListParams{
		Page:    2,
		Size:    5,
		Search:  "corp",
		Filters: filter.Values{"name": {filter.Like: "smith"}},
	}, paging.Lenient)
	require.NoError(t, err)

	plan, err := query.Build(query.Postgres, req)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT count(*) FROM account WHERE name LIKE $1 AND deleted_at IS NULL AND (name ILIKE $2)",
		plan.Count.SQL)
	assert.Equal(t,
		"SELECT id, company_id, name, created_at, updated_at FROM account WHERE name LIKE $1 AND deleted_at IS NULL AND (name ILIKE $2) ORDER BY created_at DESC LIMIT 5 OFFSET 5",
		plan.Data.SQL)
	assert.Equal(t, []any{"%smith%", "%corp%"}, plan.Data.Args)
}

func TestResource_RequestLiteral(t *testing.T) {
	req, err := VehicleTrips.Request(ListParams{
		Page:    1,
		Size:    20,
		OrderBy: []string{"fare", "-mileage"},
		Fields:  []string{"trip_id", "fare"},
		Filters: filter.Values{
			"electric": {filter.Eq: "true"},
			"status":   {filter.In: "moving,charging"},
			"fare":     {filter.Gte: "12.5"},
		},
	}, paging.Strict)
	require.NoError(t, err)

	plan, err := query.Build(query.ClickHouse, req)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT trip_id, fare FROM vehicle_trip WHERE status in ('moving','charging') AND fare >= '12.5' AND electric = 1 ORDER BY fare ASC, mileage DESC LIMIT 20 OFFSET 0",
		plan.Data.SQL)
}

func TestResource_OrderModes(t *testing.T) {
	params := ListParams{Page: 1, Size: 10, OrderBy: []string{"-bogus"}}

	req, err := Companies.Request(params, paging.Lenient)
	require.NoError(t, err)
	assert.Equal(t, []string{"-created_at"}, req.Order.Tokens())

	_, err = Companies.Request(params, paging.Strict)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownOrderField))

	params.OrderBy = nil
	params.Fields = []string{"password"}
	_, err = Companies.Request(params, paging.Strict)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownSelectField))
}

func TestResource_RequestErrors(t *testing.T) {
	_, err := Companies.Request(ListParams{Page: 0, Size: 10}, paging.Lenient)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPage))

	_, err = Companies.Request(ListParams{Page: 1, Size: 10, Filters: filter.Values{"secret": {filter.Eq: "x"}}}, paging.Lenient)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	req, err := Companies.Request(ListParams{Page: 1, Size: 5000}, paging.Lenient)
	require.NoError(t, err)
	assert.Equal(t, defaultMaxLimit, req.Pager.Limit)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	valid := func() Resource {
		return Resource{
			Name:         "things",
			Connection:   "main",
			Table:        "thing",
			Schema:       filter.MustSchema("things", filter.Field{Name: "name", Type: filter.String}),
			Fields:       []string{"id", "name"},
			OrderFields:  []string{"name"},
			DefaultOrder: []string{"name"},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *Resource)
	}{
		{name: "BadName", mutate: func(r *Resource) { r.Name = "Things!" }},
		{name: "NoConnection", mutate: func(r *Resource) { r.Connection = "" }},
		{name: "NoTable", mutate: func(r *Resource) { r.Table = "" }},
		{name: "NoSchema", mutate: func(r *Resource) { r.Schema = nil }},
		{name: "NoFields", mutate: func(r *Resource) { r.Fields = nil }},
		{name: "BadField", mutate: func(r *Resource) { r.Fields = []string{"id; drop"} }},
		{name: "BadSearchField", mutate: func(r *Resource) { r.SearchFields = []string{"lower(name)"} }},
		{name: "DefaultOrderNotAllowed", mutate: func(r *Resource) { r.DefaultOrder = []string{"-id"} }},
		{name: "NegativeLimit", mutate: func(r *Resource) { r.MaxLimit = -1 }},
		{name: "BadPrefix", mutate: func(r *Resource) { r.Prefix = "t x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := valid()
			tt.mutate(&res)
			err := NewRegistry().Register(res)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeSchema), "got %v", err)
		})
	}

	reg := NewRegistry()
	require.NoError(t, reg.Register(valid()))
	err := reg.Register(valid())
	assert.True(t, apperror.HasCode(err, apperror.CodeSchema))
}
