package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Store     string `json:"store"`
}

// PageParams is the limit/offset pair behind every paginated listing. A page
// of exactly Limit rows signals that more pages may exist; a shorter page ends
// the scroll.
type PageParams struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to sane bounds.
func (p PageParams) Normalize() PageParams {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// NextOffset returns the offset of the following page, or -1 when returned is
// shorter than the page limit and scrolling should stop.
func (p PageParams) NextOffset(returned int) int {
	if returned < p.Limit {
		return -1
	}
	return p.Offset + p.Limit
}
