// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listquery

// DefaultPageSize is applied when a query carries no explicit page size.
const DefaultPageSize = 20

// Pager computes the zero-based row window from a 1-based page number.
type Pager struct {
	Page     int
	PageSize int
}

// NewPager normalizes page and page size into a valid window. Page numbers
// below 1 clamp to 1; a non-positive size falls back to DefaultPageSize.
// A page past the end of the result set still produces a well-formed
// (empty-result) window rather than an error.
func NewPager(page, pageSize int) Pager {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return Pager{Page: page, PageSize: pageSize}
}

// Offset returns the zero-based row offset.
func (p Pager) Offset() uint64 {
	return uint64(p.Page-1) * uint64(p.PageSize)
}

// Limit returns the row limit.
func (p Pager) Limit() uint64 {
	return uint64(p.PageSize)
}

// TotalPages computes the page count for a total row count. An empty result
// set still counts as one (empty) page so the UI never divides by zero.
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage pulls a page number back into [1, totalPages]. Callers use it
// after totals are known so a session is never stuck past the end when a
// filter shrinks the result set.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageResult is the paginated response envelope.
type PageResult[T any] struct {
	Rows       []T   `json:"rows"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPageResult assembles a PageResult, deriving TotalPages from the count.
func NewPageResult[T any](rows []T, totalCount int64, page, pageSize int) PageResult[T] {
	pager := NewPager(page, pageSize)
	if rows == nil {
		rows = []T{}
	}
	return PageResult[T]{
		Rows:       rows,
		TotalCount: totalCount,
		Page:       pager.Page,
		PageSize:   pager.PageSize,
		TotalPages: TotalPages(totalCount, pager.PageSize),
	}
}
