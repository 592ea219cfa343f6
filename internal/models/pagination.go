package models

// Pagination mirrors the envelope's pagination block.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
	PageSize    int `json:"page_size"`
}

// Paginate slices a full result set locally when the server omits pagination
// metadata. The requested page is clamped to the last valid page, and an
// empty set yields zero pages with no items.
func Paginate[T any](items []T, p Pagination) ([]T, Pagination) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 1
	}
	totalItems := len(items)
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}

	// An empty set has no valid page beyond the first.
	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	page := p.CurrentPage
	if page > maxPage {
		page = maxPage
	}
	if page < 1 {
		page = 1
	}

	out := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PageSize:    pageSize,
	}
	if totalPages == 0 {
		return []T{}, out
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return items[start:end], out
}
