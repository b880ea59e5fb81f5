// Package paging resolves page/size, order tokens and projected fields for list queries.
package paging

import (
	"math"

	"crudcenter/internal/core/apperror"
)

// Pager is one page window: Limit > 0, Offset >= 0.
type Pager struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPager converts a 1-indexed page and a page size into a window.
// When maxLimit > 0 the size is clamped first and the offset uses the clamped size.
func NewPager(page, size, maxLimit int) (Pager, error) {
	if page < 1 || size < 1 {
		return Pager{}, apperror.NewInvalidPage(page, size)
	}
	if maxLimit > 0 && size > maxLimit {
		size = maxLimit
	}
	// offset must stay representable
	if page-1 > math.MaxInt/size {
		return Pager{}, apperror.NewInvalidPage(page, size)
	}
	return Pager{Limit: size, Offset: (page - 1) * size}, nil
}

// Page returns the 1-indexed page the window starts on.
func (p Pager) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// PageInfo describes where a page sits in the full result.
type PageInfo struct {
	TotalPage  int64 `json:"total_page"`
	TotalCount int64 `json:"total_count"`
	Size       int   `json:"size"`
	Page       int   `json:"page"`
}

// NewPageInfo computes page metadata; TotalPage rounds up.
func NewPageInfo(total int64, p Pager) PageInfo {
	info := PageInfo{TotalCount: total, Size: p.Limit, Page: p.Page()}
	if p.Limit > 0 {
		limit := int64(p.Limit)
		info.TotalPage = (total + limit - 1) / limit
	}
	return info
}
