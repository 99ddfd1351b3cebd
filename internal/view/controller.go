// Package view drives a filtered, paginated view of the remote course collection.
//
// The Controller owns the filter criteria and pagination state. The presentation
// layer sends it events (initialize, page change, filter edit, teardown) and reads
// back immutable Snapshots. Every event that touches the server runs as a cycle
// identified by a monotonically increasing token; a response that arrives after
// a newer cycle has started is discarded, so the published result always belongs
// to the latest cycle.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/debounce"
	"github.com/rshade/coursedesk/internal/logging"
	"github.com/rshade/coursedesk/internal/pagination"
	"github.com/rshade/coursedesk/internal/query"
)

// ErrClosed is returned for events sent after Close.
var ErrClosed = errors.New("view controller is closed")

// Querier is the remote side of the view. *query.Client implements it.
// On failure implementations return the sentinel (nil page, zero count)
// alongside the error.
type Querier interface {
	FetchPage(ctx context.Context, req query.Request) (*query.Page, error)
	Count(ctx context.Context, filter course.Filter) (int, error)
}

// FilterPagePolicy decides which page is shown after the filter changes.
type FilterPagePolicy int

const (
	// KeepPage re-fetches the current page with the new filter.
	KeepPage FilterPagePolicy = iota
	// ResetToFirstPage jumps back to page 1 whenever the filter changes.
	ResetToFirstPage
)

func (p FilterPagePolicy) String() string {
	if p == ResetToFirstPage {
		return "reset"
	}
	return "keep"
}

// Options configures a Controller.
type Options struct {
	// PageSize is fixed for the controller's lifetime.
	PageSize int

	// QuietPeriod is the filter debounce delay. Zero means debounce.DefaultQuietPeriod.
	QuietPeriod time.Duration

	// PagePolicy applies on settled filter changes.
	PagePolicy FilterPagePolicy

	// Clock drives the debounce timer. Nil means the system clock.
	Clock debounce.Clock

	// Logger receives cycle logs. Nil disables logging.
	Logger *zerolog.Logger
}

// Snapshot is the read-only state handed to the presentation layer.
type Snapshot struct {
	Items       []course.Item
	Loading     bool
	Filter      course.Filter
	Pagination  pagination.Meta

	// Err is the failure of the latest cycle, nil when it succeeded. A failed
	// count leaves the previous total in place instead of resetting it to 0,
	// so TotalPages stays pagination.TotalUnknown if the first count fails;
	// Err is how that state is told apart from a real empty result.
	Err error

	Cycle       uint64
	Initialized bool
}

// Controller orchestrates counting, paging and debounced filtering.
// All methods are safe for concurrent use.
type Controller struct {
	client    Querier
	logger    zerolog.Logger
	policy    FilterPagePolicy
	debouncer *debounce.Debouncer[course.Filter]

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup

	mu          sync.Mutex
	filter      course.Filter
	page        *pagination.State
	items       []course.Item
	totalItems  int
	loading     bool
	lastErr     error
	seq         uint64
	countSeq    uint64
	initialized bool
	closed      bool
	updates     chan Snapshot
}

// New creates a Controller with an empty filter on page 1.
func New(client Querier, opts Options) (*Controller, error) {
	if client == nil {
		return nil, errors.New("view controller requires a query client")
	}

	state, err := pagination.NewState(opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("creating pagination state: %w", err)
	}

	quiet := opts.QuietPeriod
	if quiet <= 0 {
		quiet = debounce.DefaultQuietPeriod
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = logging.ComponentLogger(*opts.Logger, "view")
	}

	bgCtx, bgCancel := context.WithCancel(logger.WithContext(context.Background()))

	c := &Controller{
		client:   client,
		logger:   logger,
		policy:   opts.PagePolicy,
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
		page:     state,
		items:    []course.Item{},
		updates:  make(chan Snapshot, 1),
	}

	debounceOpts := []debounce.Option[course.Filter]{
		debounce.WithEqual(course.Filter.Equal),
	}
	if opts.Clock != nil {
		debounceOpts = append(debounceOpts, debounce.WithClock[course.Filter](opts.Clock))
	}
	c.debouncer = debounce.New(quiet, course.Filter{}, c.onFilterSettled, debounceOpts...)

	return c, nil
}

// Initialize loads the unfiltered count and then page 1. Only the first call
// does anything.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.initialized = true
	token := c.startCycleLocked()
	countToken := c.nextCountLocked()
	pageSize := c.page.PageSize()
	c.mu.Unlock()

	empty := course.Filter{}
	c.logger.Debug().Uint64("cycle", token).Msg("initial load")

	n, countErr := c.client.Count(ctx, empty)
	if !c.applyCount(token, countToken, n, countErr) {
		return nil
	}

	req := query.Request{Where: empty, PageNumber: pagination.DefaultPage, PageSize: pageSize}
	c.fetchAndPublish(ctx, token, req, countErr)
	return nil
}

// ChangePage selects page and fetches it with the current filter. The count
// is not re-queried. Pages beyond the known total are not rejected.
func (c *Controller) ChangePage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := c.page.SetCurrentPage(page); err != nil {
		c.mu.Unlock()
		return err
	}
	token := c.startCycleLocked()
	req := query.Request{Where: c.filter, PageNumber: page, PageSize: c.page.PageSize()}
	c.mu.Unlock()

	c.logger.Debug().Uint64("cycle", token).Int("page", page).Msg("page change")
	c.fetchAndPublish(ctx, token, req, nil)
	return nil
}

// EditFilter records a filter edit. The query runs once edits have been quiet
// for the configured period; edits that do not change the filter content are
// ignored.
func (c *Controller) EditFilter(f course.Filter) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	c.debouncer.Submit(f)
}

// SettleFilter replaces the filter, re-counts, and re-fetches the current page
// (or page 1 under ResetToFirstPage). It is what a settled EditFilter runs.
func (c *Controller) SettleFilter(ctx context.Context, f course.Filter) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	cycle := c.claimSettleLocked(f)
	c.mu.Unlock()

	c.runSettle(ctx, cycle)
	return nil
}

// settleCycle is a filter cycle whose tokens have already been claimed.
type settleCycle struct {
	filter     course.Filter
	token      uint64
	countToken uint64
}

// claimSettleLocked installs f as the filter and claims the cycle and count
// tokens for it. Claim order is settle order.
func (c *Controller) claimSettleLocked(f course.Filter) settleCycle {
	c.filter = f
	if c.policy == ResetToFirstPage {
		_ = c.page.SetCurrentPage(pagination.DefaultPage)
	}
	return settleCycle{
		filter:     f,
		token:      c.startCycleLocked(),
		countToken: c.nextCountLocked(),
	}
}

func (c *Controller) runSettle(ctx context.Context, cycle settleCycle) {
	c.logger.Debug().Uint64("cycle", cycle.token).Str("filter", cycle.filter.String()).Msg("filter settled")

	n, countErr := c.client.Count(ctx, cycle.filter)
	if !c.applyCount(cycle.token, cycle.countToken, n, countErr) {
		return
	}

	c.mu.Lock()
	req := query.Request{Where: cycle.filter, PageNumber: c.page.CurrentPage(), PageSize: c.page.PageSize()}
	c.mu.Unlock()

	c.fetchAndPublish(ctx, cycle.token, req, countErr)
}

// Close tears the controller down: the pending debounce timer is cancelled,
// in-flight responses are discarded, and the update channel is closed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.seq++
	c.loading = false
	close(c.updates)
	c.mu.Unlock()

	c.debouncer.Stop()
	c.bgCancel()
	c.bg.Wait()
	c.logger.Debug().Msg("view controller closed")
}

// Snapshot returns the current published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Updates delivers the newest Snapshot after every state change. Older
// undelivered snapshots are replaced, so a slow reader only sees the latest.
// The channel is closed by Close.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// PendingFilter returns the most recent filter edit, settled or not.
func (c *Controller) PendingFilter() course.Filter {
	return c.debouncer.Latest()
}

// onFilterSettled runs under the debouncer lock, so settle signals arrive one
// at a time and in order. The cycle is claimed here; only the remote calls move
// to a goroutine.
func (c *Controller) onFilterSettled(f course.Filter) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	cycle := c.claimSettleLocked(f)
	c.bg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.bg.Done()
		c.runSettle(c.bgCtx, cycle)
	}()
}

// startCycleLocked claims a new cycle token and marks the view loading.
func (c *Controller) startCycleLocked() uint64 {
	c.seq++
	c.loading = true
	c.publishLocked()
	return c.seq
}

func (c *Controller) nextCountLocked() uint64 {
	c.countSeq++
	return c.countSeq
}

// applyCount stores a count result if no newer count has been issued, and
// reports whether the cycle identified by token is still the latest.
// A failed count leaves the previous total in place.
func (c *Controller) applyCount(token, countToken uint64, n int, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if countToken == c.countSeq && err == nil {
		c.page.SetTotal(n)
		c.totalItems = n
	}
	if token != c.seq {
		c.logger.Debug().
			Uint64("cycle", token).
			Uint64("latest", c.seq).
			Msg("discarding stale count cycle")
		return false
	}
	c.publishLocked()
	return true
}

// fetchAndPublish fetches req and publishes the items if token is still the
// latest cycle. A failed fetch keeps the previously published items.
func (c *Controller) fetchAndPublish(ctx context.Context, token uint64, req query.Request, priorErr error) {
	page, fetchErr := c.client.FetchPage(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.seq {
		c.logger.Debug().
			Uint64("cycle", token).
			Uint64("latest", c.seq).
			Int("page", req.PageNumber).
			Msg("discarding stale page response")
		return
	}

	if page != nil {
		c.items = page.Data
	}
	c.lastErr = errors.Join(priorErr, fetchErr)
	c.loading = false
	c.publishLocked()
}

func (c *Controller) publishLocked() {
	if c.closed {
		return
	}
	snap := c.snapshotLocked()
	select {
	case <-c.updates:
	default:
	}
	c.updates <- snap
}

func (c *Controller) snapshotLocked() Snapshot {
	items := make([]course.Item, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:       items,
		Loading:     c.loading,
		Filter:      c.filter,
		Pagination:  c.page.Meta(c.totalItems),
		Err:         c.lastErr,
		Cycle:       c.seq,
		Initialized: c.initialized,
	}
}
