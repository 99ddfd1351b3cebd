// Package debounce coalesces bursts of edits into a single "settled" signal.
//
// A Debouncer is Idle until a value is submitted, then Pending until the quiet
// period passes without further submissions. Each new submission restarts the
// quiet period, so the delay measures time since the last edit. When the timer
// fires, the most recently submitted value is emitted once.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is the delay used when none is configured.
const DefaultQuietPeriod = time.Second

// State is the debouncer's state.
type State int

const (
	// StateIdle means no timer is running.
	StateIdle State = iota
	// StatePending means a timer is running and a settle signal is due.
	StatePending
	// StateStopped means the debouncer was torn down.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Option configures a Debouncer.
type Option[T any] func(*Debouncer[T])

// WithClock replaces the system clock.
func WithClock[T any](c Clock) Option[T] {
	return func(d *Debouncer[T]) { d.clock = c }
}

// WithEqual sets the content comparison used to ignore no-op edits.
// Without it every submission counts as an edit.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(d *Debouncer[T]) { d.equal = eq }
}

// Debouncer emits the latest submitted value after a quiet period.
// It is safe for concurrent use.
//
// onSettle runs on the timer goroutine while the debouncer's lock is held, so
// it must return quickly and must not call back into the Debouncer. This is
// what guarantees that no signal is delivered after Stop returns.
type Debouncer[T any] struct {
	quiet    time.Duration
	clock    Clock
	equal    func(a, b T) bool
	onSettle func(T)

	mu      sync.Mutex
	state   State
	timer   Timer
	gen     uint64
	latest  T
	settled T
}

// New creates an idle Debouncer. initial is the value considered already
// settled: submitting an equal value does not start a timer.
func New[T any](quiet time.Duration, initial T, onSettle func(T), opts ...Option[T]) *Debouncer[T] {
	if quiet < 0 {
		quiet = 0
	}
	d := &Debouncer[T]{
		quiet:    quiet,
		clock:    SystemClock{},
		onSettle: onSettle,
		latest:   initial,
		settled:  initial,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit records an edit. Idle → Pending; Pending restarts the timer.
// A value equal to the latest known one is not an edit and changes nothing.
// Submissions after Stop are ignored. It reports whether a timer was (re)started.
func (d *Debouncer[T]) Submit(v T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateStopped {
		return false
	}
	if d.equal != nil && d.equal(v, d.latest) {
		return false
	}

	d.latest = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.quiet, func() { d.fire(gen) })
	d.state = StatePending
	return true
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Superseded by a later Submit, or torn down.
	if gen != d.gen || d.state != StatePending {
		return
	}

	d.state = StateIdle
	d.timer = nil
	if d.equal != nil && d.equal(d.latest, d.settled) {
		return
	}
	d.settled = d.latest
	if d.onSettle != nil {
		d.onSettle(d.latest)
	}
}

// Stop cancels any pending timer. No settle signal is emitted once Stop returns.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.state = StateStopped
}

// State returns the current state.
func (d *Debouncer[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Latest returns the most recently submitted value.
func (d *Debouncer[T]) Latest() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}
