// elev/handle.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"context"
	"slices"
	"sync"

	"github.com/mmp/aerodb/math"
)

// Handle tracks a single elevation request submitted to a Service. All of
// its methods may be called from any goroutine.
type Handle struct {
	positions []math.Point2LL
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}

	mu        sync.Mutex
	finished  bool
	result    []float32
	err       error
	callbacks []func()
}

func newHandle(ctx context.Context, positions []math.Point2LL) *Handle {
	h := &Handle{
		positions: slices.Clone(positions),
		done:      make(chan struct{}),
	}
	h.ctx, h.cancel = context.WithCancel(ctx)
	return h
}

// Done returns a channel that is closed once the request has finished,
// successfully or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) IsDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// IsError reports whether the request finished without a result.
func (h *Handle) IsError() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.finished && h.err != nil
}

// Result returns the elevations in feet, one per submitted position, or
// nil if the request hasn't finished successfully.
func (h *Handle) Result() []float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Cancel stops the request if it is still queued or running; it is a
// no-op once the request has finished.
func (h *Handle) Cancel() {
	h.finish(nil, ErrCancelled)
}

// OnComplete registers fn to be called once the request finishes. fn runs
// on whichever goroutine finishes the request, or immediately on the
// caller's if that has already happened, so it must not block.
func (h *Handle) OnComplete(fn func()) {
	h.mu.Lock()
	if h.finished {
		h.mu.Unlock()
		fn()
		return
	}
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

// finish records the outcome of the request; only the first call has any
// effect.
func (h *Handle) finish(result []float32, err error) bool {
	h.mu.Lock()
	if h.finished {
		h.mu.Unlock()
		return false
	}
	h.finished = true
	h.result, h.err = result, err
	cbs := h.callbacks
	h.callbacks = nil
	close(h.done)
	h.mu.Unlock()

	h.cancel()
	for _, cb := range cbs {
		cb()
	}
	return true
}
