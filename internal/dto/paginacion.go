package dto

// Paginacion is the pagination envelope shared by every list endpoint.
type Paginacion struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NuevaPaginacion derives page flags from a total row count.
func NuevaPaginacion(total int64, page, limit int) Paginacion {
	if limit < 1 {
		limit = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Paginacion{
		Total:       total,
		TotalPages:  pages,
		CurrentPage: page,
		Limit:       limit,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}
