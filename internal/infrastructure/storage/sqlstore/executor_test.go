package sqlstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudcenter/internal/domain/filter"
	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/query"
	"crudcenter/internal/domain/resource"
)

const accountSchema = `
CREATE TABLE account (
	id          TEXT PRIMARY KEY,
	company_id  TEXT NOT NULL,
	name        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	deleted_at  INTEGER
)`

// countingExecutor records how often each phase runs.
type countingExecutor struct {
	query.Executor
	counts  int
	fetches int
}

func (c *countingExecutor) Count(ctx context.Context, st query.Statement) (int64, error) {
	c.counts++
	return c.Executor.Count(ctx, st)
}

func (c *countingExecutor) Fetch(ctx context.Context, st query.Statement) ([]map[string]any, error) {
	c.fetches++
	return c.Executor.Fetch(ctx, st)
}

func openAccounts(t *testing.T) *Executor {
	t.Helper()

	exec, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(exec.Close)

	db := exec.DB()
	db.MustExec(accountSchema)
	for i := 1; i <= 6; i++ {
		ts := fmt.Sprintf("2024-01-0%d 00:00:00", i)
		db.MustExec(`INSERT INTO account (id, company_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			fmt.Sprintf("acc-%d", i), "co-1", fmt.Sprintf("Smith Corp %d", i), ts, ts)
	}
	db.MustExec(`INSERT INTO account (id, company_id, name, created_at, updated_at, deleted_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"acc-7", "co-1", "Smith Deleted Corp", "2024-01-07 00:00:00", "2024-01-07 00:00:00", 1718000000)
	db.MustExec(`INSERT INTO account (id, company_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"acc-8", "co-2", "Jones Corp", "2024-01-08 00:00:00", "2024-01-08 00:00:00")
	return exec
}

func listAccounts(t *testing.T, exec query.Executor, params resource.ListParams) (query.Page, error) {
	t.Helper()
	req, err := resource.Accounts.Request(params, paging.Lenient)
	require.NoError(t, err)
	return query.NewAssembler(exec, query.SQLite).List(context.Background(), req)
}

func TestList_EndToEnd(t *testing.T) {
	exec := &countingExecutor{Executor: openAccounts(t)}

	page, err := listAccounts(t, exec, resource.ListParams{
		Page:    2,
		Size:    5,
		Search:  "corp",
		Filters: filter.Values{"name": {filter.Like: "smith"}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Smith Corp 1", page.Records[0]["name"])
	assert.Equal(t, paging.PageInfo{TotalPage: 2, TotalCount: 6, Size: 5, Page: 2}, page.Info())
	assert.Equal(t, 1, exec.counts)
	assert.Equal(t, 1, exec.fetches)
}

func TestList_ZeroCountSkipsFetch(t *testing.T) {
	exec := &countingExecutor{Executor: openAccounts(t)}

	page, err := listAccounts(t, exec, resource.ListParams{
		Page:    1,
		Size:    10,
		Filters: filter.Values{"name": {filter.Like: "nobody"}},
	})
	require.NoError(t, err)

	assert.Zero(t, page.Total)
	assert.Empty(t, page.Records)
	assert.Equal(t, 1, exec.counts)
	assert.Zero(t, exec.fetches)
}

func TestList_FiltersAndProjection(t *testing.T) {
	exec := openAccounts(t)

	page, err := listAccounts(t, exec, resource.ListParams{
		Page:    1,
		Size:    10,
		OrderBy: []string{"created_at"},
		Fields:  []string{"id", "name"},
		Filters: filter.Values{"company_id": {filter.In: []string{"co-2"}}},
	})
	// company_id is a uuid field; plain ids are rejected before any query runs
	require.Error(t, err)
	assert.Zero(t, page.Total)

	page, err = listAccounts(t, exec, resource.ListParams{
		Page:    1,
		Size:    3,
		OrderBy: []string{"created_at"},
		Fields:  []string{"id", "name"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	require.Len(t, page.Records, 3)
	assert.Equal(t, map[string]any{"id": "acc-1", "name": "Smith Corp 1"}, page.Records[0])
}

func TestExecutor_CountError(t *testing.T) {
	exec := openAccounts(t)

	_, err := exec.Count(context.Background(), query.Statement{SQL: "SELECT count(*) FROM missing_table"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlstore count")
	assert.NoError(t, exec.Ping(context.Background()))
}
