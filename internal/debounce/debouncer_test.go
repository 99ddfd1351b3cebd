package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quiet = time.Second

type recorder struct {
	mu      sync.Mutex
	signals []string
}

func (r *recorder) settle(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, v)
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.signals...)
}

func newTestDebouncer(clock *ManualClock, rec *recorder) *Debouncer[string] {
	return New(quiet, "", rec.settle,
		WithClock[string](clock),
		WithEqual(func(a, b string) bool { return a == b }))
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	edits := []string{"g", "go", "gol", "gola", "golang"}
	for _, e := range edits {
		require.True(t, d.Submit(e))
		assert.Equal(t, StatePending, d.State())
		clock.Advance(quiet - time.Millisecond)
	}
	assert.Empty(t, rec.got(), "nothing settles while edits keep arriving")

	clock.Advance(time.Millisecond)

	assert.Equal(t, []string{"golang"}, rec.got())
	assert.Equal(t, StateIdle, d.State())
	assert.Zero(t, clock.Pending())
}

func TestDebouncer_CoalescesAnyBurstLength(t *testing.T) {
	for n := 1; n <= 25; n++ {
		clock := NewManualClock()
		rec := &recorder{}
		d := newTestDebouncer(clock, rec)

		var last string
		for i := range n {
			last = string(rune('a' + i))
			d.Submit(last)
			clock.Advance(quiet / 2)
		}
		clock.Advance(quiet)

		assert.Equal(t, []string{last}, rec.got(), "burst of %d", n)
	}
}

func TestDebouncer_IsolatedEdits(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Submit("first")
	clock.Advance(quiet)
	d.Submit("second")
	clock.Advance(quiet + time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.got())
}

func TestDebouncer_QuietPeriodMeasuredFromLastEdit(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Submit("a")
	clock.Advance(900 * time.Millisecond)
	d.Submit("ab")
	clock.Advance(900 * time.Millisecond)
	assert.Empty(t, rec.got(), "1.8s since the first edit, only 0.9s since the last")

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"ab"}, rec.got())
}

func TestDebouncer_IgnoresUnchangedContent(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	assert.False(t, d.Submit(""), "equal to the initial value")
	assert.Equal(t, StateIdle, d.State())
	assert.Zero(t, clock.Pending())

	d.Submit("x")
	clock.Advance(quiet / 2)
	assert.False(t, d.Submit("x"), "resubmitting the pending value is not an edit")
	clock.Advance(quiet / 2)
	assert.Equal(t, []string{"x"}, rec.got())
}

func TestDebouncer_EditBackToSettledValueEmitsNothing(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Submit("a")
	clock.Advance(quiet)
	d.Submit("ab")
	d.Submit("a")
	clock.Advance(quiet)

	assert.Equal(t, []string{"a"}, rec.got())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Submit("draft")
	d.Stop()
	clock.Advance(10 * quiet)

	assert.Empty(t, rec.got())
	assert.Equal(t, StateStopped, d.State())

	assert.False(t, d.Submit("after"))
	clock.Advance(10 * quiet)
	assert.Empty(t, rec.got())
}

func TestDebouncer_StopAfterTimerDueButBeforeCallback(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := New(quiet, "", rec.settle, WithClock[string](clock))

	d.Submit("late")
	// Simulate the timer goroutine losing the race with Stop.
	gen := d.gen
	d.Stop()
	d.fire(gen)

	assert.Empty(t, rec.got())
}

func TestDebouncer_WithoutEqualEveryEditCounts(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	d := New(quiet, "", rec.settle, WithClock[string](clock))

	assert.True(t, d.Submit(""))
	clock.Advance(quiet)
	assert.Equal(t, []string{""}, rec.got())
	assert.Empty(t, d.Latest())
}

func TestDebouncer_SystemClock(t *testing.T) {
	settled := make(chan string, 4)
	d := New(20*time.Millisecond, "", func(v string) { settled <- v })

	d.Submit("a")
	d.Submit("b")
	d.Submit("c")

	select {
	case v := <-settled:
		assert.Equal(t, "c", v)
	case <-time.After(2 * time.Second):
		t.Fatal("settle signal never arrived")
	}

	select {
	case v := <-settled:
		t.Fatalf("unexpected second signal %q", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
