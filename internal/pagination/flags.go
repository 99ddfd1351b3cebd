package pagination

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

// Page-based pagination defaults and validation limits.
const (
	DefaultPage     = 1
	MinPage         = 1
	DefaultPageSize = 5
	MinPageSize     = 1
	MaxPageSize     = 1000
)

// Common validation errors.
var (
	ErrInvalidPageSize = errors.New("page-size must be between 1 and 1000")
	ErrInvalidPage     = errors.New("page must be >= 1")
)

// Params holds the --page and --page-size flag values of one-shot commands.
// Zero values mean "use the default".
type Params struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of results per page.
	PageSize int
}

// NewParams creates Params with default values.
func NewParams() *Params {
	return &Params{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// RegisterFlags binds --page and --page-size on fs.
func (p *Params) RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVar(&p.Page, "page", p.Page, "page number to fetch (1-based)")
	fs.IntVar(&p.PageSize, "page-size", p.PageSize, "number of courses per page (1-1000)")
}

// Validate checks the parameters are in range.
func (p Params) Validate() error {
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}
	if p.Page != 0 && p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize != 0 && (p.PageSize < MinPageSize || p.PageSize > MaxPageSize) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	return nil
}

// EffectivePage returns Page, or DefaultPage when unset.
func (p Params) EffectivePage() int {
	if p.Page == 0 {
		return DefaultPage
	}
	return p.Page
}

// EffectivePageSize returns PageSize, or DefaultPageSize when unset.
func (p Params) EffectivePageSize() int {
	if p.PageSize == 0 {
		return DefaultPageSize
	}
	return p.PageSize
}
