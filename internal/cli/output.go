package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/coursedesk/internal/config"
	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/pagination"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// numbers formats counts with thousands separators.
//
//nolint:gochecknoglobals // Printer is stateless after construction.
var numbers = message.NewPrinter(language.English)

// listResult is the structured form of `coursedesk list`.
type listResult struct {
	Filter     course.Filter   `json:"filter"     yaml:"filter"`
	Courses    []course.Item   `json:"courses"    yaml:"courses"`
	Pagination pagination.Meta `json:"pagination" yaml:"pagination"`
}

// countResult is the structured form of `coursedesk count`.
type countResult struct {
	Filter course.Filter `json:"filter" yaml:"filter"`
	Count  int           `json:"count"  yaml:"count"`
}

// resolveFormat picks the --output value, falling back to the configured default.
func resolveFormat(flag string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", flag)
	}
}

func renderStructured(w io.Writer, format string, v any) error {
	if format == OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint:mnd // Standard YAML indent.
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderList(w io.Writer, format string, res listResult) error {
	if format != OutputTable {
		return renderStructured(w, format, res)
	}

	if len(res.Courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses match the filter.")
		return err
	}

	cols := course.Columns(res.Courses)
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	cells := make([]string, len(cols))
	for _, item := range res.Courses {
		for i, c := range cols {
			cells[i] = item.Field(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "\n"+pageSummary(res.Pagination))
	return err
}

// pageSummary renders "Page 2 of 3 (12 courses)".
func pageSummary(meta pagination.Meta) string {
	if !meta.Known() {
		return numbers.Sprintf("Page %d", meta.CurrentPage)
	}
	return numbers.Sprintf("Page %d of %d (%d courses)", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
}

func renderCount(w io.Writer, format string, res countResult) error {
	if format != OutputTable {
		return renderStructured(w, format, res)
	}
	noun := "courses"
	if res.Count == 1 {
		noun = "course"
	}
	_, err := numbers.Fprintf(w, "%d %s\n", res.Count, noun)
	return err
}
