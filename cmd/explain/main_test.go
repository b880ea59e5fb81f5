package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudcenter/internal/core/apperror"
)

func runExplain(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestPlan_Postgres(t *testing.T) {
	out, err := runExplain(t, "plan", "companies", "page=2", "size=5", "name__like=acme", "order_by=-created_at")
	require.NoError(t, err)

	assert.Equal(t, `-- dialect: postgres, order mode: lenient
SELECT count(*) FROM company WHERE name LIKE $1 AND deleted_at IS NULL;
-- args: $1=%acme%
SELECT id, name, industry, created_at, updated_at FROM company WHERE name LIKE $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT 5 OFFSET 5;
-- args: $1=%acme%
`, out)
}

func TestPlan_ClickHouseDefault(t *testing.T) {
	out, err := runExplain(t, "plan", "vehicle_trips", "status__in=moving,charging", "electric=true", "size=20")
	require.NoError(t, err)

	assert.Contains(t, out, "-- dialect: clickhouse")
	assert.Contains(t, out, "SELECT count(*) FROM vehicle_trip WHERE status in ('moving','charging') AND electric = 1;")
	assert.NotContains(t, out, "-- args")
}

func TestPlan_Literal(t *testing.T) {
	out, err := runExplain(t, "plan", "companies", "industry__isnull=true", "--literal")
	require.NoError(t, err)
	assert.Equal(t, "WHERE industry is null AND deleted_at is null\n", out)
}

func TestPlan_Errors(t *testing.T) {
	_, err := runExplain(t, "plan", "companies", "order_by=bogus", "--strict")
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownOrderField))

	_, err = runExplain(t, "plan", "companies", "page=0")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPage))

	_, err = runExplain(t, "plan", "companies", "--dialect", "oracle")
	assert.ErrorContains(t, err, "unknown dialect")

	_, err = runExplain(t, "plan", "users")
	assert.True(t, apperror.IsNotFound(err))

	_, err = runExplain(t, "bogus")
	assert.Error(t, err)
}

func TestResourcesAndSchema(t *testing.T) {
	out, err := runExplain(t, "resources")
	require.NoError(t, err)
	assert.Contains(t, out, "vehicle_brands")
	assert.Contains(t, out, "vehiclebrand")

	out, err = runExplain(t, "schema", "vehicle_trips")
	require.NoError(t, err)
	assert.Contains(t, out, "idle|moving|charging|maintenance")
	assert.Contains(t, out, "order: started_at,mileage,fare (default -started_at)")
}
