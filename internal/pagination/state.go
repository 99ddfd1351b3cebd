package pagination

import "fmt"

// TotalUnknown is the TotalPages value before the first count arrives.
const TotalUnknown = -1

// State tracks which page of the collection is selected.
// PageSize is fixed at construction; State is not safe for concurrent use and is
// owned by a single controller.
type State struct {
	currentPage int
	pageSize    int
	totalPages  int
}

// NewState creates a State on page 1 with an unknown total.
func NewState(pageSize int) (*State, error) {
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	return &State{
		currentPage: DefaultPage,
		pageSize:    pageSize,
		totalPages:  TotalUnknown,
	}, nil
}

// SetTotal recomputes TotalPages from an item count. CurrentPage is left alone.
func (s *State) SetTotal(itemCount int) {
	s.totalPages = TotalPages(itemCount, s.pageSize)
}

// SetCurrentPage selects a page. It does not clamp against TotalPages; only
// pages below 1 are rejected.
func (s *State) SetCurrentPage(page int) error {
	if page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	s.currentPage = page
	return nil
}

// CurrentPage returns the selected 1-based page.
func (s *State) CurrentPage() int { return s.currentPage }

// PageSize returns the fixed page size.
func (s *State) PageSize() int { return s.pageSize }

// TotalPages returns the page count, or TotalUnknown before the first count.
func (s *State) TotalPages() int { return s.totalPages }

// Meta summarizes the state for display.
func (s *State) Meta(totalItems int) Meta {
	return Meta{
		CurrentPage: s.currentPage,
		PageSize:    s.pageSize,
		TotalPages:  s.totalPages,
		TotalItems:  totalItems,
		HasPrevious: s.currentPage > 1,
		HasNext:     s.totalPages != TotalUnknown && s.currentPage < s.totalPages,
	}
}

// TotalPages returns ceil(itemCount / pageSize). Zero or negative counts give 0.
func TotalPages(itemCount, pageSize int) int {
	if itemCount <= 0 || pageSize <= 0 {
		return 0
	}
	pages := itemCount / pageSize
	if itemCount%pageSize > 0 {
		pages++
	}
	return pages
}
