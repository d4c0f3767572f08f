// Package pagination normalizes page/limit request parameters and
// computes list response metadata.
package pagination

// Parameter bounds. Requests outside these are clamped rather than
// rejected.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds normalized pagination parameters.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the parameters into their valid ranges, applying
// defaults for zero values. Page is 1-based.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata returned alongside list results.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta computes metadata for a result set of total rows. TotalPages
// is ceil(total/limit).
func NewMeta(total int, p Params) Meta {
	totalPages := (total + p.Limit - 1) / p.Limit
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
