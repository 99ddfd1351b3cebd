package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/pagination"
)

const (
	truncateSuffix = "..."
	helpText       = "/ search · c category · s status · n/p page · g/G first/last · enter details · esc clear · q quit"
	detailHelpText = "↑/↓ scroll · esc back"
)

// numbers formats counts with thousands separators.
//
//nolint:gochecknoglobals // Printer is stateless after construction.
var numbers = message.NewPrinter(language.English)

// defaultColumns are shown before any course has been loaded.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var defaultColumns = []string{"id", "name", "categoryId", "status"}

// refreshTable rebuilds columns and rows from the current snapshot.
func (m *CourseModel) refreshTable() {
	cols := course.Columns(m.snap.Items)
	if len(cols) == 0 {
		cols = defaultColumns
	}
	m.columns = cols

	rows := make([]table.Row, len(m.snap.Items))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for r, item := range m.snap.Items {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = truncate(item.Field(c), maxColumnWidth)
			widths[i] = max(widths[i], len(row[i]))
		}
		rows[r] = row
	}

	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: c, Width: widths[i]}
	}

	// Rows go first so the table never renders a row narrower than its columns.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if len(rows) > 0 {
		// SetCursor clamps into the new row range.
		m.table.SetCursor(m.table.Cursor())
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-len(truncateSuffix)] + truncateSuffix
}

// View renders the browser (Bubble Tea interface).
func (m CourseModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("COURSES"))
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n\n")

	if m.state == ViewStateDetail {
		b.WriteString(m.detail.View())
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render(detailHelpText))
		return b.String()
	}

	switch {
	case m.state == ViewStateLoading:
		b.WriteString(m.loadingState.View())
	case len(m.snap.Items) == 0 && !m.snap.Loading:
		b.WriteString(InfoStyle.Render("No courses match the filter."))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(helpText))
	return b.String()
}

func (m CourseModel) renderFilterBar() string {
	label := func(text string, focused bool) string {
		if focused {
			return FocusedLabelStyle.Render(text)
		}
		return LabelStyle.Render(text)
	}

	status := "any"
	if m.status != nil {
		status = string(*m.status)
	}

	parts := []string{
		label("Search: ", m.focus == focusQuery) + m.query.View(),
		label("Category: ", m.focus == focusCategory) + m.category.View(),
		LabelStyle.Render("Status: ") + ValueStyle.Render(status),
	}
	return strings.Join(parts, "   ")
}

// renderStatusLine shows the spinner, the page bar and the last error. The
// page bar is hidden while the list is empty.
func (m CourseModel) renderStatusLine() string {
	var parts []string
	if m.snap.Loading && m.state != ViewStateLoading {
		parts = append(parts, m.loadingState.View())
	}
	if len(m.snap.Items) > 0 {
		parts = append(parts, ValueStyle.Render(pageBar(m.snap.Pagination)))
	}
	if m.snap.Err != nil {
		parts = append(parts, CriticalStyle.Render("Last request failed: "+firstLine(m.snap.Err.Error())))
	}
	if m.notice != "" {
		parts = append(parts, WarningStyle.Render(m.notice))
	}
	return strings.Join(parts, "  ")
}

// pageBar renders "Page 2 of 4 · 17 courses".
func pageBar(meta pagination.Meta) string {
	if !meta.Known() {
		return numbers.Sprintf("Page %d", meta.CurrentPage)
	}
	noun := "courses"
	if meta.TotalItems == 1 {
		noun = "course"
	}
	return numbers.Sprintf("Page %d of %d · %d %s", meta.CurrentPage, max(meta.TotalPages, 1), meta.TotalItems, noun)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
