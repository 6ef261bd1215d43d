// elev/task.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"sync/atomic"

	"github.com/mmp/aerodb/log"
	"github.com/mmp/aerodb/math"
	"github.com/mmp/aerodb/util"
)

type TaskState int

const (
	// TaskInert tasks never started a request, either because the record
	// was invalid or it had no positions to look up.
	TaskInert TaskState = iota
	TaskPending
	TaskCompleted
	TaskCancelled
)

func (s TaskState) String() string {
	switch s {
	case TaskInert:
		return "inert"
	case TaskPending:
		return "pending"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TaskFuncs provides the record-specific parts of a Task.
type TaskFuncs[R util.Record] struct {
	// Fetch returns the current value of the record at an address.
	Fetch func(util.Address) (R, bool)
	// Positions returns the positions whose elevations are needed, or
	// nil if the record lacks them.
	Positions func(R) []math.Point2LL
	// Apply stores the elevations, one per position, in the record. It
	// returns false if they could not be applied.
	Apply func(r *R, elevations []float32) bool
	// Save commits the updated record.
	Save func(R)
}

// Task looks up elevations for one record in the background and saves the
// record with them once they are available. Everything other than the
// elevation request itself happens on the controller goroutine that
// drains the Dispatcher, so the reference count and state need no
// locking; only the cancellation flag is read from the worker side.
//
// A new Task holds two references: one for the caller and one for the
// outstanding request, which is dropped when the request completes or
// the task is cancelled.
type Task[R util.Record] struct {
	addr   util.Address
	funcs  TaskFuncs[R]
	disp   *Dispatcher
	handle *Handle
	lg     *log.Logger

	state     TaskState
	refs      int
	destroyed bool
	onDestroy []func()
	cancelled atomic.Bool
}

// NewTask fetches the record at addr and submits a request for its
// positions' elevations to svc. If the record is invalid or has no
// positions, the returned task is inert and holds only the caller's
// reference.
func NewTask[R util.Record](svc *Service, disp *Dispatcher, addr util.Address, funcs TaskFuncs[R],
	lg *log.Logger) *Task[R] {
	t := &Task[R]{
		addr:  addr,
		funcs: funcs,
		disp:  disp,
		lg:    lg.With("address", addr),
		refs:  2,
		state: TaskInert,
	}

	r, ok := funcs.Fetch(addr)
	if !ok || !r.Valid() {
		t.lg.Debug("elevation task: no record")
		t.Unreference()
		return t
	}
	positions := funcs.Positions(r)
	if len(positions) == 0 {
		t.lg.Debug("elevation task: record has no positions")
		t.Unreference()
		return t
	}
	for _, p := range positions {
		if p.IsZero() {
			t.lg.Debug("elevation task: record has a missing coordinate")
			t.Unreference()
			return t
		}
	}

	t.state = TaskPending
	t.handle = svc.Submit(positions)
	t.handle.OnComplete(func() {
		// Worker goroutine (or the caller's, if the result was cached).
		if !t.cancelled.Load() {
			disp.Post(t.complete)
		}
	})
	return t
}

func (t *Task[R]) Address() util.Address { return t.addr }

func (t *Task[R]) State() TaskState { return t.state }

// Destroyed reports whether all references to the task have been
// released.
func (t *Task[R]) Destroyed() bool { return t.destroyed }

// complete runs on the controller goroutine after the request finishes.
func (t *Task[R]) complete() {
	if t.cancelled.Load() || t.state != TaskPending {
		return
	}
	t.state = TaskCompleted

	h := t.handle
	if h.IsError() {
		t.lg.Debug("elevation task: discarding result", "error", h.Err())
	} else if r, ok := t.funcs.Fetch(t.addr); !ok || !r.Valid() {
		t.lg.Debug("elevation task: record went away")
	} else if t.funcs.Apply(&r, h.Result()) {
		t.funcs.Save(r)
	} else {
		t.lg.Debug("elevation task: result not applicable")
	}

	h.Cancel()
	t.Unreference()
}

// Cancel abandons the request if it hasn't completed yet; the save
// callback will not be called even if the result arrives later. It is a
// no-op otherwise.
func (t *Task[R]) Cancel() {
	if t.state != TaskPending {
		return
	}
	t.cancelled.Store(true)
	t.state = TaskCancelled
	t.handle.Cancel()
	t.Unreference()
}

func (t *Task[R]) Reference() {
	if !t.destroyed {
		t.refs++
	}
}

// Unreference releases a reference; the task is destroyed when the last
// one is released.
func (t *Task[R]) Unreference() {
	if t.destroyed || t.refs == 0 {
		return
	}
	t.refs--
	if t.refs > 0 {
		return
	}

	t.destroyed = true
	if t.state == TaskPending {
		// Not reachable through the public API, since the pending request
		// holds a reference, but leave nothing running regardless.
		t.cancelled.Store(true)
		t.state = TaskCancelled
	}
	if t.handle != nil {
		t.handle.Cancel()
	}
	for _, fn := range t.onDestroy {
		fn()
	}
	t.onDestroy = nil
}

// OnDestroy registers fn to be called when the task is destroyed.
func (t *Task[R]) OnDestroy(fn func()) {
	if t.destroyed {
		fn()
	} else {
		t.onDestroy = append(t.onDestroy, fn)
	}
}
