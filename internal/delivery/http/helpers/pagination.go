package helpers

import (
	"net/http"
	"strconv"

	"venuebooking/internal/domain"
)

// Listing endpoints cap page_size to keep result sets bounded.
const maxPageSize = 100

// ParsePagination reads page and page_size from the query string. Missing,
// malformed, or out-of-range values fall back to page 1 and size 20.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveQueryInt(q.Get("page"), 1, 0),
		PageSize: positiveQueryInt(q.Get("page_size"), 20, maxPageSize),
	}
}

// positiveQueryInt parses s as a positive integer, falling back to def and
// clamping to max when max is nonzero.
func positiveQueryInt(s string, def, max int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// PaginationMeta describes the page window of a list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta derives the metadata for a page of total items.
// TotalPages rounds up; a zero pageSize yields zero pages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
