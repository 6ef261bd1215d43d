// elev/service.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/mmp/aerodb/log"
	"github.com/mmp/aerodb/math"
	"github.com/mmp/aerodb/util"
)

// Provider computes terrain elevations in feet for a batch of positions.
// A NaN elevation indicates that there is no data for the corresponding
// position. Implementations should return promptly once ctx is done.
type Provider interface {
	Elevations(ctx context.Context, positions []math.Point2LL) ([]float32, error)
}

type ServiceOptions struct {
	Workers   int           // number of concurrent provider calls
	CacheSize int           // number of cached positions
	CacheTTL  time.Duration // how long cached elevations remain valid
	Timeout   time.Duration // limit on a single provider call
}

var DefaultServiceOptions = ServiceOptions{
	Workers:   4,
	CacheSize: 4096,
	CacheTTL:  time.Hour,
	Timeout:   30 * time.Second,
}

func (o ServiceOptions) withDefaults() ServiceOptions {
	if o.Workers <= 0 {
		o.Workers = DefaultServiceOptions.Workers
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultServiceOptions.CacheSize
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultServiceOptions.CacheTTL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultServiceOptions.Timeout
	}
	return o
}

// cacheKey quantizes a position to roughly a meter.
type cacheKey [2]int64

func makeCacheKey(p math.Point2LL) cacheKey {
	return cacheKey{int64(math.Round(p[0] * 1e5)), int64(math.Round(p[1] * 1e5))}
}

// Service runs elevation requests against a Provider on a fixed pool of
// worker goroutines.
type Service struct {
	provider Provider
	opts     ServiceOptions
	cache    *expirable.LRU[cacheKey, float32]
	lg       *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	eg     errgroup.Group

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Handle
	closed bool
}

func NewService(p Provider, opts ServiceOptions, lg *log.Logger) *Service {
	opts = opts.withDefaults()
	s := &Service{
		provider: p,
		opts:     opts,
		cache:    expirable.NewLRU[cacheKey, float32](opts.CacheSize, nil, opts.CacheTTL),
		lg:       lg,
	}
	s.cond = sync.NewCond(&s.mu)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for range opts.Workers {
		s.eg.Go(s.worker)
	}
	return s
}

// Submit requests the elevations of the given positions. It never blocks;
// the returned Handle reports the outcome. Requests that can be satisfied
// from the cache finish before Submit returns.
func (s *Service) Submit(positions []math.Point2LL) *Handle {
	h := newHandle(s.ctx, positions)

	if len(positions) == 0 {
		h.finish(nil, ErrNoData)
		return h
	}
	if elev, ok := s.cached(positions); ok {
		h.finish(elev, nil)
		return h
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		h.finish(nil, ErrServiceClosed)
		return h
	}
	s.queue = append(s.queue, h)
	s.cond.Signal()
	s.mu.Unlock()

	return h
}

func (s *Service) cached(positions []math.Point2LL) ([]float32, bool) {
	elev := make([]float32, len(positions))
	for i, p := range positions {
		e, ok := s.cache.Get(makeCacheKey(p))
		if !ok {
			return nil, false
		}
		elev[i] = e
	}
	return elev, true
}

// next returns the next queued request, waiting for one if necessary; it
// returns nil once the service has been closed.
func (s *Service) next() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil
	}
	h := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return h
}

func (s *Service) worker() error {
	for {
		h := s.next()
		if h == nil {
			return nil
		}
		s.process(h)
	}
}

func (s *Service) process(h *Handle) {
	if h.IsDone() {
		// Cancelled while queued.
		return
	}

	ctx, cancel := h.ctx, context.CancelFunc(func() {})
	if !util.DebuggerIsRunning() {
		ctx, cancel = context.WithTimeout(h.ctx, s.opts.Timeout)
	}
	defer cancel()

	start := time.Now()
	elev, err := s.provider.Elevations(ctx, h.positions)
	if err == nil && len(elev) != len(h.positions) {
		err = fmt.Errorf("provider returned %d elevations for %d positions", len(elev), len(h.positions))
	}

	if err != nil {
		switch {
		case s.ctx.Err() != nil:
			err = ErrServiceClosed
		case h.ctx.Err() != nil:
			err = ErrCancelled
		case errors.Is(err, context.DeadlineExceeded):
			err = fmt.Errorf("elevation request timed out after %s: %w", s.opts.Timeout, err)
		}
		s.lg.Debug("elevation request failed", "positions", len(h.positions), "error", err)
		h.finish(nil, err)
		return
	}

	for i, e := range elev {
		if math.IsNaN(float64(e)) {
			s.lg.Debugf("no elevation data at %s", h.positions[i].DDString())
			h.finish(nil, ErrNoData)
			return
		}
	}
	for i, e := range elev {
		s.cache.Add(makeCacheKey(h.positions[i]), e)
	}

	s.lg.Debug("elevation request finished", "positions", len(h.positions), "elapsed", time.Since(start))
	h.finish(elev, nil)
}

// Close stops the workers, waiting for any provider calls in progress to
// return. Requests that haven't finished by then fail with
// ErrServiceClosed.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	queued := s.queue
	s.queue = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	s.cancel()
	for _, h := range queued {
		h.finish(nil, ErrServiceClosed)
	}
	return s.eg.Wait()
}
