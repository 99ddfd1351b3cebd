// Package course defines the course collection types exchanged with the
// administration API: the filter criteria sent with every query and the
// opaque item records returned by it.
package course

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Status is a course publication status as understood by the server.
type Status string

// Known course statuses. The server may report others; they pass through untouched.
const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Statuses lists the known statuses in display order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusArchived}
}

// ParseStatus normalizes a user-entered status. Empty input means "no constraint".
func ParseStatus(s string) (*Status, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil, nil //nolint:nilnil // nil status is the "any status" value.
	}
	for _, known := range Statuses() {
		if Status(s) == known {
			st := known
			return &st, nil
		}
	}
	return nil, fmt.Errorf("unknown course status %q (want one of %v)", s, Statuses())
}

// Filter is the set of optional constraints applied to a course query.
// A nil field places no constraint on that attribute. Filters are values:
// the With* helpers return modified copies and never touch the receiver.
type Filter struct {
	CategoryID *int64  `json:"categoryId" yaml:"category_id,omitempty"`
	Status     *Status `json:"status"     yaml:"status,omitempty"`
	Query      *string `json:"query"      yaml:"query,omitempty"`
}

// WithCategory returns a copy of f constrained to the given category.
func (f Filter) WithCategory(id *int64) Filter {
	if id != nil {
		v := *id
		id = &v
	}
	f.CategoryID = id
	return f
}

// WithStatus returns a copy of f constrained to the given status.
func (f Filter) WithStatus(s *Status) Filter {
	if s != nil {
		v := *s
		s = &v
	}
	f.Status = s
	return f
}

// WithQuery returns a copy of f matching the free-text query. Blank text
// clears the constraint.
func (f Filter) WithQuery(q string) Filter {
	if strings.TrimSpace(q) == "" {
		f.Query = nil
		return f
	}
	f.Query = &q
	return f
}

// IsEmpty reports whether f places no constraint at all.
func (f Filter) IsEmpty() bool {
	return f.CategoryID == nil && f.Status == nil && f.Query == nil
}

// Equal compares filters by content.
func (f Filter) Equal(other Filter) bool {
	return equalPtr(f.CategoryID, other.CategoryID) &&
		equalPtr(f.Status, other.Status) &&
		equalPtr(f.Query, other.Query)
}

// String renders the active constraints for logs and status lines.
func (f Filter) String() string {
	if f.IsEmpty() {
		return "none"
	}
	var parts []string
	if f.CategoryID != nil {
		parts = append(parts, "category="+strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.Status != nil {
		parts = append(parts, "status="+string(*f.Status))
	}
	if f.Query != nil {
		parts = append(parts, fmt.Sprintf("query=%q", *f.Query))
	}
	return strings.Join(parts, " ")
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Item is a single course record as returned by the server. The controller
// does not interpret it; only the presentation layer reads its fields.
type Item map[string]any

// ID returns the record identifier, or "" when absent.
func (i Item) ID() string {
	return i.Field("id")
}

// MarshalYAML renders JSON numbers as YAML numbers instead of strings.
func (i Item) MarshalYAML() (any, error) {
	return yamlValue(map[string]any(i)), nil
}

func yamlValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = yamlValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for k, e := range val {
			out[k] = yamlValue(e)
		}
		return out
	default:
		return v
	}
}

// Field renders the named field as display text.
func (i Item) Field(name string) string {
	v, ok := i[name]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// leadingColumns are shown first, in this order, when present.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var leadingColumns = []string{"id", "name", "categoryId", "status"}

// Columns returns the field names present across items: the well-known
// course fields first, then any others in sorted order.
func Columns(items []Item) []string {
	seen := make(map[string]bool)
	for _, it := range items {
		for k := range it {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for _, k := range leadingColumns {
		if seen[k] {
			cols = append(cols, k)
			delete(seen, k)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
