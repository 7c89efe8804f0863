package model

// Listing page bounds
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// PageRequest is a normalised page/limit pair
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page and limit into range, applying defaults for
// values below one. Page is capped at MaxPage so Skip cannot overflow.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Skip returns the number of records before the requested page
func (p PageRequest) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the metadata attached to paginated listings
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total/limit), 0 when total is 0
func NewPagination(p PageRequest, total int) *Pagination {
	totalPages := 0
	if total > 0 && p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return &Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
