package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any paged query can request.
	MaxLimit = 200
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize enforces the configured defaults and maximums.
func (p Params) Normalize() Params {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	return out
}

// Bounds returns the half-open [start, end) slice window for a total count.
func (p Params) Bounds(total int) (int, int) {
	norm := p.Normalize()
	start := (norm.Page - 1) * norm.Limit
	if start > total {
		start = total
	}
	end := start + norm.Limit
	if end > total {
		end = total
	}
	return start, end
}

// PageInfo describes the paging state returned alongside a listing.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Describe computes the page metadata for a total row count.
func (p Params) Describe(total int) PageInfo {
	norm := p.Normalize()
	pages := (total + norm.Limit - 1) / norm.Limit
	if pages < 1 {
		pages = 1
	}
	return PageInfo{
		Page:       norm.Page,
		Limit:      norm.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
