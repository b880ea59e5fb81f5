package paging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudcenter/internal/core/apperror"
)

func TestNewPager(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		maxLimit   int
		wantLimit  int
		wantOffset int
	}{
		{name: "FirstPage", page: 1, size: 10, wantLimit: 10, wantOffset: 0},
		{name: "ThirdPage", page: 3, size: 10, wantLimit: 10, wantOffset: 20},
		{name: "Clamped", page: 1, size: 1000, maxLimit: 50, wantLimit: 50, wantOffset: 0},
		{name: "ClampedOffset", page: 3, size: 1000, maxLimit: 50, wantLimit: 50, wantOffset: 100},
		{name: "UnderLimit", page: 2, size: 5, maxLimit: 50, wantLimit: 5, wantOffset: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPager(tt.page, tt.size, tt.maxLimit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.Equal(t, tt.page, p.Page())
		})
	}
}

func TestNewPager_Invalid(t *testing.T) {
	for _, in := range [][2]int{{0, 10}, {1, 0}, {-1, 10}, {1, -5}, {math.MaxInt, 10}, {math.MaxInt/4 + 2, 4}} {
		_, err := NewPager(in[0], in[1], 0)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPage), "page=%d size=%d", in[0], in[1])
	}
}

func TestNewPager_LargestPage(t *testing.T) {
	p, err := NewPager(math.MaxInt/4+1, 4, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Offset, 0)
	assert.Equal(t, math.MaxInt/4*4, p.Offset)
}

func TestNewPageInfo(t *testing.T) {
	p, err := NewPager(2, 5, 0)
	require.NoError(t, err)

	assert.Equal(t, PageInfo{TotalPage: 3, TotalCount: 11, Size: 5, Page: 2}, NewPageInfo(11, p))
	assert.Equal(t, PageInfo{TotalPage: 2, TotalCount: 10, Size: 5, Page: 2}, NewPageInfo(10, p))
	assert.Equal(t, PageInfo{TotalPage: 0, TotalCount: 0, Size: 5, Page: 2}, NewPageInfo(0, p))
}

func TestResolveOrder(t *testing.T) {
	allowed := []string{"created_at"}

	spec, err := ResolveOrder(SortedTokens(map[string]struct{}{"-created_at": {}, "bogus_field": {}}), allowed, Lenient)
	require.NoError(t, err)
	assert.Equal(t, []string{"-created_at"}, spec.Tokens())
	assert.Equal(t, []string{"created_at DESC"}, spec.Clauses(""))

	_, err = ResolveOrder([]string{"-created_at", "bogus_field"}, allowed, Strict)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownOrderField))
}

func TestResolveOrder_Normalization(t *testing.T) {
	allowed := []string{"id", "name", "created_at"}

	spec, err := ResolveOrder([]string{" name", "+id", "-name", "-", "", "-created_at"}, allowed, Lenient)
	require.NoError(t, err)
	assert.Equal(t, OrderSpec{{Field: "name"}, {Field: "id"}, {Field: "created_at", Desc: true}}, spec)
	assert.Equal(t, []string{"c.name ASC", "c.id ASC", "c.created_at DESC"}, spec.Clauses("c"))

	_, err = ResolveOrder([]string{"-"}, allowed, Strict)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownOrderField))

	empty, err := ResolveOrder(nil, allowed, Strict)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"-created_at", "name", "id"}, SplitTokens("-created_at, name", "", "id,"))
	assert.Nil(t, SplitTokens())
}

func TestResolveFields(t *testing.T) {
	allowed := []string{"id", "name", "industry"}

	got, err := ResolveFields([]string{"name", "password", "id", "name"}, allowed, Lenient)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, got)

	got, err = ResolveFields(nil, allowed, Strict)
	require.NoError(t, err)
	assert.Equal(t, allowed, got)

	got, err = ResolveFields([]string{"password"}, allowed, Lenient)
	require.NoError(t, err)
	assert.Equal(t, allowed, got)

	_, err = ResolveFields([]string{"password"}, allowed, Strict)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownSelectField))
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, Strict, ModeFor(true))
	assert.Equal(t, Lenient, ModeFor(false))
	assert.Equal(t, "strict", Strict.String())
}
