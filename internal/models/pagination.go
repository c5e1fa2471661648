package models

const (
	DefaultPerPage = 15
	MaxPerPage     = 500
)

// Pagination describes one page of an ordered result. Page is always clamped
// into [1, Pages] and Pages is at least 1, so an empty result has one empty
// page.
type Pagination struct {
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	Pages    int  `json:"pages"`
	Total    int  `json:"total"`
	HasPrev  bool `json:"has_prev"`
	HasNext  bool `json:"has_next"`
	StartIdx int  `json:"start_idx"`
	EndIdx   int  `json:"end_idx"`
}

func Paginate(total, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if total < 0 {
		total = 0
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	p := Pagination{
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
	if total > 0 {
		p.StartIdx = (page-1)*perPage + 1
		p.EndIdx = min(page*perPage, total)
	}
	return p
}

// Offset is the number of rows preceding the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Bounds returns the half-open slice bounds of the page within n rows.
func (p Pagination) Bounds(n int) (int, int) {
	start := min(p.Offset(), n)
	end := min(start+p.PerPage, n)
	return start, end
}
