package pagination

// Meta contains metadata about a paginated view.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta creates pagination metadata from validated parameters and a total count.
func NewMeta(params Params, totalCount int) Meta {
	pageSize := params.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	currentPage := params.Page
	if currentPage == 0 {
		currentPage = DefaultPage
	}

	totalPages := TotalPages(totalCount, pageSize)

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}

// Known reports whether the total page count has been computed.
func (m Meta) Known() bool {
	return m.TotalPages != TotalUnknown
}

// LastPage returns the last selectable page, never less than 1.
func (m Meta) LastPage() int {
	if m.TotalPages < 1 {
		return 1
	}
	return m.TotalPages
}
