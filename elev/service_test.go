// elev/service_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"context"
	"errors"
	gomath "math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmp/aerodb/math"
)

type providerFunc func(ctx context.Context, positions []math.Point2LL) ([]float32, error)

func (f providerFunc) Elevations(ctx context.Context, positions []math.Point2LL) ([]float32, error) {
	return f(ctx, positions)
}

// constantProvider returns the same elevation everywhere and counts its
// calls.
type constantProvider struct {
	feet  float32
	calls atomic.Int32
}

func (c *constantProvider) Elevations(ctx context.Context, positions []math.Point2LL) ([]float32, error) {
	c.calls.Add(1)
	e := make([]float32, len(positions))
	for i := range e {
		e[i] = c.feet
	}
	return e, nil
}

// gatedProvider blocks until release is closed or its context is done.
type gatedProvider struct {
	started chan struct{}
	release chan struct{}
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gatedProvider) Elevations(ctx context.Context, positions []math.Point2LL) ([]float32, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
		e := make([]float32, len(positions))
		for i := range e {
			e[i] = 500
		}
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var testPositions = []math.Point2LL{{-122.375, 37.619}, {-122.359, 37.611}}

func waitHandle(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for elevation request")
	}
}

func TestServiceSubmit(t *testing.T) {
	p := &constantProvider{feet: 13}
	s := NewService(p, ServiceOptions{Workers: 2}, nil)
	defer s.Close()

	h := s.Submit(testPositions)
	waitHandle(t, h)
	if h.IsError() {
		t.Fatalf("unexpected error %v", h.Err())
	}
	if r := h.Result(); len(r) != 2 || r[0] != 13 || r[1] != 13 {
		t.Errorf("got result %v", r)
	}

	// The second request is answered from the cache.
	h = s.Submit(testPositions[:1])
	if !h.IsDone() {
		t.Errorf("cached request didn't finish immediately")
	}
	if r := h.Result(); len(r) != 1 || r[0] != 13 {
		t.Errorf("got cached result %v", r)
	}
	if n := p.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, expected 1", n)
	}

	var called atomic.Bool
	h.OnComplete(func() { called.Store(true) })
	if !called.Load() {
		t.Errorf("OnComplete on a finished handle wasn't called immediately")
	}
}

func TestServiceErrors(t *testing.T) {
	nan := float32(gomath.NaN())
	tests := []struct {
		name     string
		provider providerFunc
		expected error
	}{
		{"no data", func(ctx context.Context, p []math.Point2LL) ([]float32, error) {
			return []float32{100, nan}, nil
		}, ErrNoData},
		{"provider error", func(ctx context.Context, p []math.Point2LL) ([]float32, error) {
			return nil, context.Canceled
		}, context.Canceled},
		{"short result", func(ctx context.Context, p []math.Point2LL) ([]float32, error) {
			return []float32{1}, nil
		}, nil},
	}

	for _, test := range tests {
		s := NewService(test.provider, ServiceOptions{}, nil)
		h := s.Submit(testPositions)
		waitHandle(t, h)
		if !h.IsError() || h.Result() != nil {
			t.Errorf("%s: expected an error, got result %v", test.name, h.Result())
		}
		if test.expected != nil && !errors.Is(h.Err(), test.expected) {
			t.Errorf("%s: got error %v, expected %v", test.name, h.Err(), test.expected)
		}
		s.Close()
	}
}

func TestServiceTimeout(t *testing.T) {
	p := newGatedProvider()
	s := NewService(p, ServiceOptions{Workers: 1, Timeout: 20 * time.Millisecond}, nil)
	defer s.Close()

	h := s.Submit(testPositions)
	waitHandle(t, h)
	if !errors.Is(h.Err(), context.DeadlineExceeded) {
		t.Errorf("got error %v, expected a timeout", h.Err())
	}
}

func TestServiceCancel(t *testing.T) {
	p := newGatedProvider()
	s := NewService(p, ServiceOptions{Workers: 1}, nil)
	defer s.Close()

	running := s.Submit(testPositions)
	queued := s.Submit(testPositions[1:])
	<-p.started

	queued.Cancel()
	running.Cancel()
	for _, h := range []*Handle{running, queued} {
		waitHandle(t, h)
		if !errors.Is(h.Err(), ErrCancelled) {
			t.Errorf("got error %v, expected ErrCancelled", h.Err())
		}
	}

	// A later result doesn't replace the cancellation.
	close(p.release)
	h := s.Submit([]math.Point2LL{{1, 1}})
	waitHandle(t, h)
	if !errors.Is(running.Err(), ErrCancelled) || running.Result() != nil {
		t.Errorf("cancelled request later reported %v %v", running.Result(), running.Err())
	}
}

func TestServiceClose(t *testing.T) {
	p := newGatedProvider()
	s := NewService(p, ServiceOptions{Workers: 1}, nil)

	running := s.Submit(testPositions)
	queued := s.Submit(testPositions[1:])
	<-p.started

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	for _, h := range []*Handle{running, queued} {
		if !h.IsDone() || !errors.Is(h.Err(), ErrServiceClosed) {
			t.Errorf("got %v after close, expected ErrServiceClosed", h.Err())
		}
	}

	if h := s.Submit(testPositions); !errors.Is(h.Err(), ErrServiceClosed) {
		t.Errorf("submit after close gave %v", h.Err())
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	var order []int

	done := make(chan struct{})
	go func() {
		for i := range 3 {
			d.Post(func() { order = append(order, i) })
		}
		close(done)
	}()
	<-done

	if n := d.Pending(); n != 3 {
		t.Errorf("%d pending, expected 3", n)
	}
	d.Post(func() {
		d.Post(func() { order = append(order, 4) })
	})
	if n := d.Drain(); n != 5 {
		t.Errorf("drained %d, expected 5", n)
	}
	if len(order) != 4 || order[0] != 0 || order[1] != 1 || order[2] != 2 || order[3] != 4 {
		t.Errorf("calls ran in order %v", order)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	errc := make(chan error)
	go func() { errc <- d.Run(ctx) }()
	d.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("Run didn't run the posted call")
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
}
