// Package pagination holds the page bookkeeping for a remote course collection.
//
// This package contains:
//   - State: current page, fixed page size, and total pages derived from a server count
//   - Meta: a read-only pagination summary handed to the presentation layer
//   - Params: --page / --page-size flag values and their validation
//
// Total pages are always ceil(count / pageSize); a State that has not seen a count
// yet reports TotalUnknown.
package pagination
