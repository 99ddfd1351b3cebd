package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/pagination"
	"github.com/rshade/coursedesk/internal/view"
)

type fakeController struct {
	mu          sync.Mutex
	pages       []int
	filters     []course.Filter
	initialized int
	pageErr     error
	pageGate    chan struct{}
	updates     chan view.Snapshot
}

func newFakeController() *fakeController {
	return &fakeController{updates: make(chan view.Snapshot, 1)}
}

func (f *fakeController) Initialize(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialized++
	return nil
}

func (f *fakeController) ChangePage(_ context.Context, page int) error {
	f.mu.Lock()
	gate := f.pageGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	return f.pageErr
}

func (f *fakeController) requestedPages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

func (f *fakeController) EditFilter(filter course.Filter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
}

func (f *fakeController) Snapshot() view.Snapshot {
	return view.Snapshot{Items: []course.Item{}, Pagination: pagination.Meta{CurrentPage: 1, PageSize: 5, TotalPages: pagination.TotalUnknown}}
}

func (f *fakeController) Updates() <-chan view.Snapshot {
	return f.updates
}

func (f *fakeController) lastFilter(t *testing.T) course.Filter {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.filters)
	return f.filters[len(f.filters)-1]
}

func loadedSnapshot(page, totalItems int) view.Snapshot {
	items := []course.Item{
		{"id": 1.0, "name": "Intro to Go", "categoryId": 1.0, "status": "published"},
		{"id": 2.0, "name": "Concurrency", "categoryId": 2.0, "status": "draft"},
	}
	params := pagination.Params{Page: page, PageSize: 5}
	return view.Snapshot{
		Items:       items,
		Pagination:  pagination.NewMeta(params, totalItems),
		Initialized: true,
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update applies msg and returns the resulting CourseModel.
func update(t *testing.T, m CourseModel, msg tea.Msg) (CourseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(CourseModel)
	require.True(t, ok)
	return cm, cmd
}

func loadedModel(t *testing.T, ctrl *fakeController, page, total int) CourseModel {
	t.Helper()
	m := NewCourseModel(context.Background(), ctrl)
	m, _ = update(t, m, SnapshotMsg{Snapshot: loadedSnapshot(page, total)})
	require.Equal(t, ViewStateList, m.State())
	return m
}

func TestCourseModel_StartsLoading(t *testing.T) {
	m := NewCourseModel(context.Background(), newFakeController())

	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading courses")
	assert.NotNil(t, m.Init())
}

func TestCourseModel_InitRunsInitialize(t *testing.T) {
	ctrl := newFakeController()
	m := NewCourseModel(context.Background(), ctrl)

	msg := m.runEvent("initialize", ctrl.Initialize)()
	done, ok := msg.(eventDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, 1, ctrl.initialized)
}

func TestCourseModel_RendersSnapshot(t *testing.T) {
	m := loadedModel(t, newFakeController(), 1, 12)

	out := m.View()
	assert.Contains(t, out, "Intro to Go")
	assert.Contains(t, out, "Concurrency")
	assert.Contains(t, out, "Page 1 of 3 · 12 courses")
	assert.Equal(t, []string{"id", "name", "categoryId", "status"}, m.columns)
}

func TestCourseModel_StaysLoadingUntilFirstCycleEnds(t *testing.T) {
	m := NewCourseModel(context.Background(), newFakeController())

	snap := loadedSnapshot(1, 12)
	snap.Loading = true
	m, cmd := update(t, m, SnapshotMsg{Snapshot: snap})

	assert.Equal(t, ViewStateLoading, m.State())
	assert.NotNil(t, cmd, "keeps listening for snapshots")
}

func TestCourseModel_EmptyListHidesPageBar(t *testing.T) {
	m := NewCourseModel(context.Background(), newFakeController())
	m, _ = update(t, m, SnapshotMsg{Snapshot: view.Snapshot{
		Items:       []course.Item{},
		Pagination:  pagination.NewMeta(pagination.Params{Page: 1, PageSize: 5}, 0),
		Initialized: true,
	}})

	out := m.View()
	assert.Contains(t, out, "No courses match the filter.")
	assert.NotContains(t, out, "Page 1")
}

func TestCourseModel_ShowsLastError(t *testing.T) {
	m := NewCourseModel(context.Background(), newFakeController())
	snap := loadedSnapshot(1, 12)
	snap.Err = errors.New("pagination request failed\nsecond line")
	m, _ = update(t, m, SnapshotMsg{Snapshot: snap})

	out := m.View()
	assert.Contains(t, out, "Last request failed: pagination request failed")
	assert.NotContains(t, out, "second line")
	assert.Contains(t, out, "Intro to Go", "previous items stay visible")
}

func TestCourseModel_PageKeys(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		total    int
		key      tea.KeyMsg
		wantPage int // 0 means no event
	}{
		{name: "next", page: 1, total: 12, key: keyRunes("n"), wantPage: 2},
		{name: "pgdown", page: 2, total: 12, key: tea.KeyMsg{Type: tea.KeyPgDown}, wantPage: 3},
		{name: "next on last page", page: 3, total: 12, key: keyRunes("n")},
		{name: "prev", page: 3, total: 12, key: keyRunes("p"), wantPage: 2},
		{name: "prev on first page", page: 1, total: 12, key: tea.KeyMsg{Type: tea.KeyPgUp}},
		{name: "first", page: 3, total: 12, key: keyRunes("g"), wantPage: 1},
		{name: "first on first page", page: 1, total: 12, key: keyRunes("g")},
		{name: "last", page: 1, total: 12, key: keyRunes("G"), wantPage: 3},
		{name: "last on last page", page: 3, total: 12, key: keyRunes("G")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController()
			m := loadedModel(t, ctrl, tt.page, tt.total)

			_, cmd := update(t, m, tt.key)
			if tt.wantPage == 0 {
				assert.Nil(t, cmd)
				assert.Empty(t, ctrl.pages)
				return
			}
			require.NotNil(t, cmd)
			msg := cmd()
			assert.Equal(t, eventDoneMsg{op: "change_page"}, msg)
			assert.Equal(t, []int{tt.wantPage}, ctrl.pages)
		})
	}
}

func TestCourseModel_RapidPageKeysKeepOrder(t *testing.T) {
	ctrl := newFakeController()
	ctrl.pageGate = make(chan struct{})
	m := loadedModel(t, ctrl, 1, 12)

	m, next := update(t, m, keyRunes("n"))
	require.NotNil(t, next)
	_, last := update(t, m, keyRunes("G"))
	require.NotNil(t, last)
	close(ctrl.pageGate)

	// The later key press's command finishes first.
	assert.Equal(t, eventDoneMsg{op: opChangePage}, last())
	assert.Equal(t, eventDoneMsg{op: opChangePage}, next())

	pages := ctrl.requestedPages()
	require.NotEmpty(t, pages)
	assert.Equal(t, 3, pages[len(pages)-1], "the last key press decides the page")
}

func TestCourseModel_QueryEditsGoToController(t *testing.T) {
	ctrl := newFakeController()
	m := loadedModel(t, ctrl, 1, 12)

	m, _ = update(t, m, keyRunes("/"))
	m, _ = update(t, m, keyRunes("g"))
	m, _ = update(t, m, keyRunes("o"))

	require.Len(t, ctrl.filters, 2, "one edit per changed value")
	f := ctrl.lastFilter(t)
	require.NotNil(t, f.Query)
	assert.Equal(t, "go", *f.Query)

	// Keys typed into the input are not page commands.
	m, _ = update(t, m, keyRunes("n"))
	assert.Empty(t, ctrl.pages)
	assert.Equal(t, "gon", *ctrl.lastFilter(t).Query)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, focusNone, m.focus)
	assert.Equal(t, ViewStateList, m.State(), "enter leaves the input instead of opening details")
}

func TestCourseModel_StatusCycles(t *testing.T) {
	ctrl := newFakeController()
	m := loadedModel(t, ctrl, 1, 12)

	want := []*course.Status{}
	for _, s := range course.Statuses() {
		want = append(want, &s)
	}
	want = append(want, nil)

	for i, w := range want {
		m, _ = update(t, m, keyRunes("s"))
		got := ctrl.lastFilter(t).Status
		if w == nil {
			assert.Nil(t, got, "step %d", i)
			continue
		}
		require.NotNil(t, got, "step %d", i)
		assert.Equal(t, *w, *got, "step %d", i)
	}
	assert.Contains(t, m.View(), "Status: any")
}

func TestCourseModel_CategoryInput(t *testing.T) {
	ctrl := newFakeController()
	m := loadedModel(t, ctrl, 1, 12)

	m, _ = update(t, m, keyRunes("c"))
	m, _ = update(t, m, keyRunes("4"))
	require.NotNil(t, ctrl.lastFilter(t).CategoryID)
	assert.Equal(t, int64(4), *ctrl.lastFilter(t).CategoryID)

	m, _ = update(t, m, keyRunes("x"))
	assert.Len(t, ctrl.filters, 1, "non-numeric category is not submitted")
	assert.Contains(t, m.View(), "category must be a whole number")
}

func TestCourseModel_EscClearsFilters(t *testing.T) {
	ctrl := newFakeController()
	m := loadedModel(t, ctrl, 1, 12)

	m, _ = update(t, m, keyRunes("s"))
	m, _ = update(t, m, keyRunes("/"))
	m, _ = update(t, m, keyRunes("a"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, ctrl.lastFilter(t).IsEmpty())
}

func TestCourseModel_DetailPane(t *testing.T) {
	m := loadedModel(t, newFakeController(), 1, 12)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewStateDetail, m.State())
	assert.Contains(t, m.View(), "Concurrency (#2)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewStateList, m.State())
}

func TestCourseModel_EventErrors(t *testing.T) {
	m := loadedModel(t, newFakeController(), 1, 12)

	m, _ = update(t, m, eventDoneMsg{op: "change_page", err: view.ErrClosed})
	assert.Empty(t, m.notice)

	m, _ = update(t, m, eventDoneMsg{op: "change_page", err: pagination.ErrInvalidPage})
	assert.Contains(t, m.View(), pagination.ErrInvalidPage.Error())
}

func TestCourseModel_Quit(t *testing.T) {
	m := loadedModel(t, newFakeController(), 1, 12)

	m, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestWaitForSnapshot(t *testing.T) {
	ch := make(chan view.Snapshot, 1)
	ch <- view.Snapshot{Cycle: 7}

	msg := waitForSnapshot(ch)()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(7), snap.Snapshot.Cycle)

	close(ch)
	assert.Equal(t, updatesClosedMsg{}, waitForSnapshot(ch)())
}

func TestPageBar(t *testing.T) {
	assert.Equal(t, "Page 1", pageBar(pagination.Meta{CurrentPage: 1, TotalPages: pagination.TotalUnknown}))
	assert.Equal(t, "Page 1 of 1 · 1 course", pageBar(pagination.NewMeta(pagination.Params{Page: 1, PageSize: 5}, 1)))
	assert.Equal(t, "Page 3 of 400 · 1,999 courses", pageBar(pagination.NewMeta(pagination.Params{Page: 3, PageSize: 5}, 1999)))
}
