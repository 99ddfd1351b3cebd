package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/logging"
	"github.com/rshade/coursedesk/internal/tui/detail"
	"github.com/rshade/coursedesk/internal/view"
)

// Controller is the part of *view.Controller the browser drives.
type Controller interface {
	Initialize(ctx context.Context) error
	ChangePage(ctx context.Context, page int) error
	EditFilter(f course.Filter)
	Snapshot() view.Snapshot
	Updates() <-chan view.Snapshot
}

// SnapshotMsg carries a state published by the controller.
type SnapshotMsg struct {
	Snapshot view.Snapshot
}

// updatesClosedMsg is sent once the controller's update channel is closed.
type updatesClosedMsg struct{}

// eventDoneMsg reports the outcome of a controller event run as a tea.Cmd.
type eventDoneMsg struct {
	op  string
	err error
}

// filterField identifies which filter input has keyboard focus.
type filterField int

const (
	focusNone filterField = iota
	focusQuery
	focusCategory
)

// CourseModel is the Bubble Tea model of the interactive course browser.
// It renders controller snapshots and turns key presses into controller events.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type CourseModel struct {
	ctx  context.Context
	ctrl Controller
	snap view.Snapshot

	state ViewState
	focus filterField

	query    textinput.Model
	category textinput.Model
	status   *course.Status

	table   table.Model
	columns []string
	detail  detail.Model

	loadingState *LoadingState
	events       *eventQueue

	// notice is a transient message about rejected input.
	notice string

	width  int
	height int
}

// NewCourseModel creates the browser model for ctrl. Nothing is loaded until
// the program calls Init.
func NewCourseModel(ctx context.Context, ctrl Controller) CourseModel {
	m := CourseModel{
		ctx:          ctx,
		ctrl:         ctrl,
		snap:         ctrl.Snapshot(),
		state:        ViewStateLoading,
		query:        newTextInput("name contains...", 0),
		category:     newTextInput("id", 10), //nolint:mnd // int64 digits fit comfortably.
		loadingState: NewLoadingState(),
		events:       newEventQueue(ctx),
		width:        defaultWidth,
		height:       defaultHeight,
	}
	m.table = table.New(
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	m.table.SetStyles(s)
	m.refreshTable()
	return m
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if limit > 0 {
		ti.CharLimit = limit
	}
	return ti
}

// Init starts the spinner, triggers the initial load and begins listening
// for snapshots.
func (m CourseModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingState.Init(),
		m.runEvent(opInitialize, func(ctx context.Context) error { return m.ctrl.Initialize(ctx) }),
		waitForSnapshot(m.ctrl.Updates()),
	)
}

// waitForSnapshot blocks on the update channel for the next snapshot.
func waitForSnapshot(updates <-chan view.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// runEvent queues a blocking controller event. Events run off the Update loop
// but in the order they were queued.
func (m CourseModel) runEvent(op string, fn func(context.Context) error) tea.Cmd {
	return m.events.submit(m.ctx, op, fn)
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m CourseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		m.refreshTable()
		if m.state == ViewStateDetail {
			m.detail, _ = m.detail.Update(msg)
		}
		return m, nil
	case SnapshotMsg:
		return m.handleSnapshot(msg.Snapshot)
	case updatesClosedMsg:
		return m, nil
	case eventDoneMsg:
		return m.handleEventDone(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m.forward(msg)
	}
}

// forward passes spinner ticks and cursor blinks to their components.
func (m CourseModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.loadingState.Update(msg)}
	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		m.query, cmd = m.query.Update(msg)
	case focusCategory:
		m.category, cmd = m.category.Update(msg)
	case focusNone:
	}
	return m, tea.Batch(append(cmds, cmd)...)
}

func (m CourseModel) handleSnapshot(snap view.Snapshot) (tea.Model, tea.Cmd) {
	m.snap = snap
	if m.state == ViewStateLoading && snap.Initialized && !snap.Loading {
		m.state = ViewStateList
	}
	m.refreshTable()
	return m, waitForSnapshot(m.ctrl.Updates())
}

func (m CourseModel) handleEventDone(msg eventDoneMsg) CourseModel {
	if msg.err == nil || errors.Is(msg.err, view.ErrClosed) || errors.Is(msg.err, context.Canceled) {
		return m
	}
	logger := logging.FromContext(m.ctx)
	logger.Debug().Ctx(m.ctx).Str("component", "tui").Str("operation", msg.op).Err(msg.err).Msg("event rejected")
	m.notice = msg.err.Error()
	return m
}

func (m CourseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	if m.focus != focusNone {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateDetail:
		return m.handleDetailKey(msg)
	case ViewStateQuitting:
		return m, nil
	case ViewStateLoading, ViewStateList:
		return m.handleListKey(msg)
	default:
		return m, nil
	}
}

func (m CourseModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	meta := m.snap.Pagination

	switch msg.String() {
	case keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keySlash:
		return m.focusField(focusQuery)
	case keyCategory:
		return m.focusField(focusCategory)
	case keyStatus:
		m.status = nextStatus(m.status)
		cmd := m.submitFilter()
		return m, cmd
	case keyEsc:
		m.query.SetValue("")
		m.category.SetValue("")
		m.status = nil
		cmd := m.submitFilter()
		return m, cmd
	case keyNext, keyPgDown:
		if meta.HasNext {
			return m, m.changePage(meta.CurrentPage + 1)
		}
		return m, nil
	case keyPrev, keyPgUp:
		if meta.HasPrevious {
			return m, m.changePage(meta.CurrentPage - 1)
		}
		return m, nil
	case keyFirst:
		if meta.CurrentPage != 1 {
			return m, m.changePage(1)
		}
		return m, nil
	case keyLast:
		if meta.Known() && meta.TotalPages > 0 && meta.CurrentPage != meta.TotalPages {
			return m, m.changePage(meta.TotalPages)
		}
		return m, nil
	case keyEnter:
		if item, ok := m.selectedItem(); ok {
			m.detail = detail.New(item, m.columns, m.width, m.height-chromeHeight)
			m.state = ViewStateDetail
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m CourseModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyQuit, keyBackspace:
		m.state = ViewStateList
		return m, nil
	default:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
}

func (m CourseModel) focusField(f filterField) (tea.Model, tea.Cmd) {
	m.focus = f
	m.table.Blur()
	m.query.Blur()
	m.category.Blur()
	var cmd tea.Cmd
	if f == focusQuery {
		cmd = m.query.Focus()
	} else {
		cmd = m.category.Focus()
	}
	return m, cmd
}

// handleFilterInput feeds keys to the focused input. Every edit that changes
// the input's value is submitted; the controller debounces them.
func (m CourseModel) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter, keyEsc:
		m.focus = focusNone
		m.query.Blur()
		m.category.Blur()
		m.table.Focus()
		return m, nil
	case keyTab:
		if m.focus == focusQuery {
			return m.focusField(focusCategory)
		}
		return m.focusField(focusQuery)
	}

	var cmd tea.Cmd
	if m.focus == focusQuery {
		before := m.query.Value()
		m.query, cmd = m.query.Update(msg)
		if m.query.Value() == before {
			return m, cmd
		}
	} else {
		before := m.category.Value()
		m.category, cmd = m.category.Update(msg)
		if m.category.Value() == before {
			return m, cmd
		}
	}
	submit := m.submitFilter()
	return m, tea.Batch(cmd, submit)
}

// submitFilter sends the filter built from the inputs to the controller.
func (m *CourseModel) submitFilter() tea.Cmd {
	f, err := m.pendingFilter()
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	m.notice = ""
	m.ctrl.EditFilter(f)
	return nil
}

// pendingFilter builds the filter currently shown in the filter bar.
func (m CourseModel) pendingFilter() (course.Filter, error) {
	var f course.Filter
	if raw := strings.TrimSpace(m.category.Value()); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return course.Filter{}, errors.New("category must be a whole number")
		}
		f = f.WithCategory(&id)
	}
	return f.WithStatus(m.status).WithQuery(m.query.Value()), nil
}

func (m CourseModel) changePage(page int) tea.Cmd {
	return m.runEvent(opChangePage, func(ctx context.Context) error {
		return m.ctrl.ChangePage(ctx, page)
	})
}

// nextStatus cycles any -> draft -> published -> archived -> any.
func nextStatus(s *course.Status) *course.Status {
	all := course.Statuses()
	if s == nil {
		return &all[0]
	}
	for i, st := range all {
		if st == *s && i+1 < len(all) {
			return &all[i+1]
		}
	}
	return nil
}

func (m CourseModel) selectedItem() (course.Item, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.snap.Items) {
		return nil, false
	}
	return m.snap.Items[i], true
}

// State returns the current screen.
func (m CourseModel) State() ViewState {
	return m.state
}

// Snapshot returns the last snapshot the model rendered.
func (m CourseModel) Snapshot() view.Snapshot {
	return m.snap
}

func (m CourseModel) tableHeight() int {
	return max(m.height-chromeHeight, minTableHeight)
}
