// elev/taskset.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"github.com/mmp/aerodb/util"
)

// TaskSet keeps track of the outstanding tasks of an owner so that they
// can be cancelled together, e.g. when the owner is torn down. Like Task,
// it must only be used from the controller goroutine.
type TaskSet[R util.Record] struct {
	tasks map[*Task[R]]struct{}
}

func NewTaskSet[R util.Record]() *TaskSet[R] {
	return &TaskSet[R]{tasks: make(map[*Task[R]]struct{})}
}

// Add starts tracking t; it is forgotten once it is destroyed.
func (ts *TaskSet[R]) Add(t *Task[R]) {
	if t.Destroyed() || t.State() != TaskPending {
		return
	}
	ts.tasks[t] = struct{}{}
	t.OnDestroy(func() { delete(ts.tasks, t) })
}

// Pending returns the number of tracked tasks whose requests are still
// outstanding.
func (ts *TaskSet[R]) Pending() int {
	n := 0
	for t := range ts.tasks {
		if t.State() == TaskPending {
			n++
		}
	}
	return n
}

// Cancel cancels the pending tasks for the record at addr.
func (ts *TaskSet[R]) Cancel(addr util.Address) int {
	n := 0
	for t := range ts.tasks {
		if t.Address() == addr && t.State() == TaskPending {
			t.Cancel()
			n++
		}
	}
	return n
}

func (ts *TaskSet[R]) CancelAll() int {
	n := 0
	for t := range ts.tasks {
		if t.State() == TaskPending {
			t.Cancel()
			n++
		}
	}
	return n
}
