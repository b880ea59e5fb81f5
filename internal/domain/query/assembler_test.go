package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/filter"
	"crudcenter/internal/domain/paging"
)

// mockExecutor records every statement it receives.
type mockExecutor struct {
	mu       sync.Mutex
	total    int64
	rows     []map[string]any
	countErr error
	fetchErr error

	counts  []Statement
	fetches []Statement
}

func (m *mockExecutor) Count(_ context.Context, st Statement) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, st)
	return m.total, m.countErr
}

func (m *mockExecutor) Fetch(_ context.Context, st Statement) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, st)
	return m.rows, m.fetchErr
}

var companySchema = filter.MustSchema("companies",
	filter.Field{Name: "name", Type: filter.String},
	filter.Field{Name: "industry", Type: filter.String},
	filter.Field{Name: "created_at", Type: filter.DateTime},
)

func companyRequest(t *testing.T, values filter.Values, search string, page, size int) Request {
	t.Helper()

	where, err := companySchema.Resolve(values)
	require.NoError(t, err)
	pager, err := paging.NewPager(page, size, 0)
	require.NoError(t, err)
	order, err := paging.ResolveOrder([]string{"-created_at"}, []string{"created_at", "name"}, paging.Lenient)
	require.NoError(t, err)

	return Request{
		Table:  "companies",
		Fields: []string{"id", "name", "industry"},
		Where:  where,
		Search: filter.NewSearch(search, "name", "industry"),
		Order:  order,
		Pager:  pager,
	}
}

func TestBuild_Parameterized(t *testing.T) {
	req := companyRequest(t, filter.Values{"name": {filter.Like: "smith"}}, "corp", 2, 5)

	plan, err := Build(Postgres, req)
	require.NoError(t, err)

	wantCount := "SELECT count(*) FROM companies WHERE name LIKE $1 AND (name ILIKE $2 OR industry ILIKE $3)"
	wantData := "SELECT id, name, industry FROM companies WHERE name LIKE $1 AND (name ILIKE $2 OR industry ILIKE $3) ORDER BY created_at DESC LIMIT 5 OFFSET 5"
	if plan.Count.SQL != wantCount {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantCount, plan.Count.SQL)
	}
	if plan.Data.SQL != wantData {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantData, plan.Data.SQL)
	}
	assert.Equal(t, []any{"%smith%", "%corp%", "%corp%"}, plan.Count.Args)
	assert.Equal(t, plan.Count.Args, plan.Data.Args)
}

func TestBuild_SQLite(t *testing.T) {
	req := companyRequest(t, filter.Values{"name": {filter.Like: "smith"}}, "corp", 1, 10)

	plan, err := Build(SQLite, req)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name, industry FROM companies WHERE name LIKE ? AND (name LIKE ? OR industry LIKE ?) ORDER BY created_at DESC LIMIT 10 OFFSET 0",
		plan.Data.SQL)
}

func TestBuild_Inline(t *testing.T) {
	req := companyRequest(t, filter.Values{"name": {filter.Like: "smith"}}, "corp", 2, 5)

	plan, err := Build(ClickHouse, req)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT count(*) FROM companies WHERE name like '%smith%' AND (name like '%corp%' OR industry like '%corp%')",
		plan.Count.SQL)
	assert.Equal(t,
		"SELECT id, name, industry FROM companies WHERE name like '%smith%' AND (name like '%corp%' OR industry like '%corp%') ORDER BY created_at DESC LIMIT 5 OFFSET 5",
		plan.Data.SQL)
	assert.Empty(t, plan.Count.Args)
	assert.Empty(t, plan.Data.Args)
}

func TestBuild_EmptyWhere(t *testing.T) {
	req := companyRequest(t, filter.Values{}, "", 1, 10)
	req.Order = nil

	plan, err := Build(ClickHouse, req)
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM companies WHERE 1=1", plan.Count.SQL)
	assert.Equal(t, "SELECT id, name, industry FROM companies WHERE 1=1 LIMIT 10 OFFSET 0", plan.Data.SQL)

	plan, err = Build(Postgres, req)
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM companies WHERE 1=1", plan.Count.SQL)
}

func TestBuild_Prefix(t *testing.T) {
	req := companyRequest(t, filter.Values{"industry": {filter.IsNull: false}}, "", 1, 10)
	req.Table = "companies c JOIN accounts a ON a.company_id = c.id"
	req.Fields = []string{"c.id", "c.name"}
	req.Prefix = "c"

	plan, err := Build(ClickHouse, req)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT c.id, c.name FROM companies c JOIN accounts a ON a.company_id = c.id WHERE c.industry is not null ORDER BY c.created_at DESC LIMIT 10 OFFSET 0",
		plan.Data.SQL)
}

func TestBuild_Errors(t *testing.T) {
	base := companyRequest(t, filter.Values{}, "", 1, 10)

	noTable := base
	noTable.Table = ""
	_, err := Build(Postgres, noTable)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	noFields := base
	noFields.Fields = nil
	_, err = Build(Postgres, noFields)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	noPager := base
	noPager.Pager = paging.Pager{}
	_, err = Build(Postgres, noPager)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPage))

	unsafe := companyRequest(t, filter.Values{"name": {filter.Eq: "o'brien"}}, "", 1, 10)
	_, err = Build(ClickHouse, unsafe)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnsafeValue))
	_, err = Build(Postgres, unsafe)
	assert.NoError(t, err)
}

func TestBuild_Idempotent(t *testing.T) {
	values := filter.Values{"name": {filter.Like: "smith", filter.Neq: "x"}, "created_at": {filter.Gte: "2024-01-01"}}

	for _, d := range []Dialect{Postgres, SQLite, ClickHouse} {
		first, err := Build(d, companyRequest(t, values, "corp", 3, 20))
		require.NoError(t, err)
		second, err := Build(d, companyRequest(t, values, "corp", 3, 20))
		require.NoError(t, err)
		assert.Equal(t, first, second, d.Name)
	}
}

func TestAssembler_List(t *testing.T) {
	exec := &mockExecutor{
		total: 7,
		rows:  []map[string]any{{"id": 6, "name": "Smith Corp"}, {"id": 7, "name": "Smith Corporation"}},
	}
	a := NewAssembler(exec, Postgres)

	page, err := a.List(context.Background(), companyRequest(t, filter.Values{"name": {filter.Like: "smith"}}, "corp", 2, 5))
	require.NoError(t, err)

	assert.Equal(t, int64(7), page.Total)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, paging.PageInfo{TotalPage: 2, TotalCount: 7, Size: 5, Page: 2}, page.Info())

	require.Len(t, exec.counts, 1)
	require.Len(t, exec.fetches, 1)
	assert.Contains(t, exec.fetches[0].SQL, "LIMIT 5 OFFSET 5")
}

func TestAssembler_ZeroCountSkipsFetch(t *testing.T) {
	exec := &mockExecutor{total: 0}
	a := NewAssembler(exec, ClickHouse)

	page, err := a.List(context.Background(), companyRequest(t, filter.Values{"name": {filter.Like: "smith"}}, "corp", 2, 5))
	require.NoError(t, err)

	assert.Equal(t, int64(0), page.Total)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
	assert.Len(t, exec.counts, 1)
	assert.Empty(t, exec.fetches, "data query must not run when nothing matches")
}

func TestAssembler_NilRowsBecomeEmpty(t *testing.T) {
	exec := &mockExecutor{total: 3}
	page, err := NewAssembler(exec, SQLite).List(context.Background(), companyRequest(t, filter.Values{}, "", 2, 5))
	require.NoError(t, err)
	assert.NotNil(t, page.Records)
	assert.Len(t, exec.fetches, 1)
}

func TestAssembler_Errors(t *testing.T) {
	req := companyRequest(t, filter.Values{}, "", 1, 10)

	_, err := NewAssembler(&mockExecutor{countErr: errors.New("connection refused")}, Postgres).List(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDatabase))

	notFound := apperror.NewNotFound("connection", "asset_center")
	_, err = NewAssembler(&mockExecutor{total: 1, fetchErr: notFound}, Postgres).List(context.Background(), req)
	assert.Same(t, notFound, err)

	exec := &mockExecutor{}
	bad := req
	bad.Fields = nil
	_, err = NewAssembler(exec, Postgres).List(context.Background(), bad)
	require.Error(t, err)
	assert.Empty(t, exec.counts)
}

func TestDialectByName(t *testing.T) {
	d, ok := DialectByName("clickhouse")
	require.True(t, ok)
	assert.True(t, d.Inline)

	_, ok = DialectByName("oracle")
	assert.False(t, ok)
}
