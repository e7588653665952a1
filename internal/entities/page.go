package entities

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Page is a 1-based pagination window.
type Page struct {
	Number int
	Limit  int
}

// Normalize clamps the page into supported bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Offset returns rows to skip.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Limit
}

// Pagination describes a returned page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination builds page metadata for a total row count.
func NewPagination(p Page, total int64) Pagination {
	n := p.Normalize()
	pages := total / int64(n.Limit)
	if total%int64(n.Limit) != 0 {
		pages++
	}
	return Pagination{Page: n.Number, Limit: n.Limit, Total: total, TotalPages: pages}
}
