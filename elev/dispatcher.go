// elev/dispatcher.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"context"
	"sync"
)

// Dispatcher carries function calls from worker goroutines to the single
// controller goroutine that owns the record store and the undo history.
// Post never blocks; the controller runs the posted calls, in order, from
// Drain or Run.
type Dispatcher struct {
	mu      sync.Mutex
	pending []func()
	ready   chan struct{}
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{ready: make(chan struct{}, 1)}
}

// Post queues fn to be run on the controller goroutine.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.pending = append(d.pending, fn)
	d.mu.Unlock()

	select {
	case d.ready <- struct{}{}:
	default:
		// Already signalled.
	}
}

// Ready returns a channel that receives a value when there may be posted
// calls to run.
func (d *Dispatcher) Ready() <-chan struct{} {
	return d.ready
}

// Drain runs all of the calls posted so far, including any posted by the
// calls themselves, and returns how many were run. It must only be called
// from the controller goroutine.
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		d.mu.Lock()
		fns := d.pending
		d.pending = nil
		d.mu.Unlock()

		if len(fns) == 0 {
			return n
		}
		for _, fn := range fns {
			fn()
		}
		n += len(fns)
	}
}

// Pending returns the number of calls waiting to be run.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Run makes the calling goroutine the controller: it runs posted calls as
// they arrive until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.ready:
			d.Drain()
		}
	}
}
