package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item. selected reports whether it is under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// KeyMap defines the navigation bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

// DefaultKeyMap returns arrow, page and vim-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	}
}

// Model is a scrolling list that renders only the rows inside its viewport.
type Model[T any] struct {
	KeyMap KeyMap

	items  []T
	render RenderFunc[T]

	cursor int
	offset int // index of the first visible row
	height int
	width  int
}

// New creates a list showing items in a viewport of height rows.
func New[T any](items []T, height, width int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		KeyMap: DefaultKeyMap(),
		items:  items,
		render: render,
		height: max(height, 1),
		width:  width,
	}
	m.scrollToCursor()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.KeyMap.Up):
		m.SetSelected(m.cursor - 1)
	case key.Matches(msg, m.KeyMap.Down):
		m.SetSelected(m.cursor + 1)
	case key.Matches(msg, m.KeyMap.PageUp):
		m.SetSelected(m.cursor - m.height)
	case key.Matches(msg, m.KeyMap.PageDown):
		m.SetSelected(m.cursor + m.height)
	case key.Matches(msg, m.KeyMap.Top):
		m.SetSelected(0)
	case key.Matches(msg, m.KeyMap.Bottom):
		m.SetSelected(len(m.items) - 1)
	}
}

// scrollToCursor moves the viewport the minimum distance needed to keep the
// cursor visible.
func (m *Model[T]) scrollToCursor() {
	if len(m.items) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = max(0, min(m.offset, len(m.items)-m.height))
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	for i := m.offset; i < m.VisibleTo(); i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.render(m.items[i], i == m.cursor))
	}
	return b.String()
}

// SetItems replaces the items and clamps the cursor.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.cursor)
}

// SetSize changes the viewport dimensions.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 1)
	m.scrollToCursor()
}

// ItemCount returns the total number of items.
func (m *Model[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the cursor index.
func (m *Model[T]) Selected() int {
	return m.cursor
}

// SetSelected moves the cursor, clamped to the item range.
func (m *Model[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.cursor = 0
	} else {
		m.cursor = max(0, min(index, len(m.items)-1))
	}
	m.scrollToCursor()
}

// VisibleFrom returns the first visible index (inclusive).
func (m *Model[T]) VisibleFrom() int {
	return m.offset
}

// VisibleTo returns the last visible index (exclusive).
func (m *Model[T]) VisibleTo() int {
	return min(m.offset+m.height, len(m.items))
}

// Height returns the viewport height.
func (m *Model[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *Model[T]) Width() int {
	return m.width
}

// SelectedItem returns the item under the cursor, or nil for an empty list.
func (m *Model[T]) SelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.cursor]
}
