package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Controller event names, used in eventDoneMsg and logs.
const (
	opInitialize = "initialize"
	opChangePage = "change_page"
)

// eventQueueSize bounds how many controller events may wait for the worker.
const eventQueueSize = 32

// errEventQueueFull is reported when key presses outrun the controller.
var errEventQueueFull = errors.New("too many pending requests, try again")

type eventJob struct {
	op   string
	fn   func(context.Context) error
	done chan error
}

// eventQueue runs controller events one at a time in the order Update
// submitted them. A page change still queued behind a newer page change is
// skipped and reports success.
type eventQueue struct {
	jobs chan eventJob
}

func newEventQueue(ctx context.Context) *eventQueue {
	q := &eventQueue{jobs: make(chan eventJob, eventQueueSize)}
	go q.run(ctx)
	return q
}

// submit enqueues fn immediately and returns a command that waits for it.
func (q *eventQueue) submit(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	job := eventJob{op: op, fn: fn, done: make(chan error, 1)}
	select {
	case q.jobs <- job:
	default:
		return func() tea.Msg { return eventDoneMsg{op: op, err: errEventQueueFull} }
	}
	return func() tea.Msg {
		select {
		case err := <-job.done:
			return eventDoneMsg{op: op, err: err}
		case <-ctx.Done():
			return eventDoneMsg{op: op, err: ctx.Err()}
		}
	}
}

func (q *eventQueue) run(ctx context.Context) {
	var next *eventJob
	for {
		var job eventJob
		if next != nil {
			job, next = *next, nil
		} else {
			select {
			case <-ctx.Done():
				return
			case job = <-q.jobs:
			}
		}
		job, next = q.coalesce(job)
		job.done <- job.fn(ctx)
	}
}

// coalesce replaces a page change with the newest page change queued directly
// behind it. The first other event found is handed back to run.
func (q *eventQueue) coalesce(job eventJob) (eventJob, *eventJob) {
	for job.op == opChangePage {
		select {
		case j := <-q.jobs:
			if j.op != opChangePage {
				return job, &j
			}
			job.done <- nil
			job = j
		default:
			return job, nil
		}
	}
	return job, nil
}
