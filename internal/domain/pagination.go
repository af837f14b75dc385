package domain

const defaultPageSize = 20

// PaginationParams selects one page of a list query.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit is the number of rows to fetch for the page.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return defaultPageSize
	}
	return p.PageSize
}

// Offset is the number of rows to skip before the page starts.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
