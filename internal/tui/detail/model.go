package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/coursedesk/internal/course"
	listview "github.com/rshade/coursedesk/internal/tui/list"
)

// headerLines is the space taken above the field list.
const headerLines = 2

//nolint:gochecknoglobals // lipgloss styles are immutable values.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// Field is one name/value line of the detail pane.
type Field struct {
	Name  string
	Value string
}

// Model shows every field of one course in a scrolling list.
type Model struct {
	title  string
	fields *listview.Model[Field]
}

// New builds the detail pane for item, listing fields in columns order.
func New(item course.Item, columns []string, width, height int) Model {
	nameWidth := 0
	for _, c := range columns {
		nameWidth = max(nameWidth, len(c))
	}

	fields := make([]Field, 0, len(columns))
	for _, c := range columns {
		if _, ok := item[c]; !ok {
			continue
		}
		fields = append(fields, Field{Name: c, Value: item.Field(c)})
	}

	render := func(f Field, selected bool) string {
		line := fmt.Sprintf("%-*s  %s", nameWidth, f.Name, f.Value)
		if selected {
			return selectedStyle.Render(line)
		}
		return nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, f.Name)) + "  " + valueStyle.Render(f.Value)
	}

	title := "Course"
	if name := item.Field("name"); name != "" {
		title = name
	}
	if id := item.ID(); id != "" {
		title += " (#" + id + ")"
	}

	return Model{
		title:  title,
		fields: listview.New(fields, height-headerLines, width, render),
	}
}

// Title returns the pane heading.
func (m Model) Title() string {
	return m.title
}

// Fields returns the number of fields shown.
func (m Model) Fields() int {
	return m.fields.ItemCount()
}

// Update forwards navigation to the field list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.fields.SetSize(size.Width, size.Height-headerLines)
		return m, nil
	}
	_, cmd := m.fields.Update(msg)
	return m, cmd
}

// View renders the heading and the visible fields.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	if m.fields.ItemCount() == 0 {
		b.WriteString(nameStyle.Render("(no fields)"))
		return b.String()
	}
	b.WriteString(m.fields.View())
	return b.String()
}
