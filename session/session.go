// session/session.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/goforj/godump"

	"github.com/mmp/aerodb/aviation"
	"github.com/mmp/aerodb/elev"
	"github.com/mmp/aerodb/log"
	"github.com/mmp/aerodb/math"
	"github.com/mmp/aerodb/store"
	"github.com/mmp/aerodb/util"
)

type Runway = aviation.RunwayGeometry

// EditFunc mutates a runway; it is given the services that heading and
// coordinate edits consult.
type EditFunc func(r *Runway, ec aviation.EditContext)

type Options struct {
	// MaxUndo bounds the undo history; util.MaxUndo is used if it's zero.
	MaxUndo int
	// Declination provides magnetic variation for renumbering runways. If
	// nil, true headings are used.
	Declination aviation.Declinator
	// Elevation looks up threshold elevations for RequestElevation; it
	// may be nil.
	Elevation *elev.Service
	Now       func() time.Time
}

// Session edits the runways in a store. All of its methods must be called
// from a single goroutine, the controller; elevation lookups run in the
// background and are brought back to it through the session's
// dispatcher, via Pump, Wait or Run.
type Session struct {
	store   *store.Store[Runway]
	history *util.UndoRedoStack[Runway]
	disp    *elev.Dispatcher
	elev    *elev.Service
	tasks   *elev.TaskSet[Runway]
	ec      aviation.EditContext
	lg      *log.Logger
}

func New(st *store.Store[Runway], opts Options, lg *log.Logger) *Session {
	return &Session{
		store:   st,
		history: util.NewUndoRedoStack[Runway](opts.MaxUndo),
		disp:    elev.NewDispatcher(),
		elev:    opts.Elevation,
		tasks:   elev.NewTaskSet[Runway](),
		ec:      aviation.EditContext{Declination: opts.Declination, Now: opts.Now},
		lg:      lg,
	}
}

func (s *Session) Store() *store.Store[Runway] { return s.store }

func (s *Session) EditContext() aviation.EditContext { return s.ec }

func (s *Session) Get(addr util.Address) (Runway, bool) {
	return s.store.Fetch(addr)
}

// Revert returns the stored value of a runway, discarding any in-memory
// view the caller has of it.
func (s *Session) Revert(addr util.Address) (Runway, bool) {
	r, ok := s.store.Fetch(addr)
	if ok {
		s.lg.Debug("reverted to stored runway", "address", addr)
	}
	return r, ok
}

// Create adds a new runway at the given airport, initialized by fn.
// Undoing the creation deletes the runway.
func (s *Session) Create(airport string, fn EditFunc) (Runway, error) {
	r := Runway{Addr: s.store.NewAddress(), Airport: airport}
	if fn != nil {
		fn(&r, s.ec)
	}

	s.history.Erase(r)
	s.history.Save(r)
	if err := s.store.Save(r); err != nil {
		s.history.Retract()
		s.history.Retract()
		s.lg.Warn("unable to save new runway", "airport", airport, "error", err)
		return Runway{}, err
	}

	s.lg.Debug("created runway", "address", r.Addr, "runway", godump.DumpStr(r))
	return r, nil
}

// Edit applies fn to the runway at addr and saves the result. If the
// store rejects it, the edit is dropped from the history and the stored
// runway is returned along with the error.
func (s *Session) Edit(addr util.Address, fn EditFunc) (Runway, error) {
	before, ok := s.store.Fetch(addr)
	if !ok {
		return Runway{}, ErrNoSuchRecord
	}

	after := before
	fn(&after, s.ec)
	if after.Addr != addr {
		// The address is the identity of the runway.
		after.Addr = addr
	}
	if after == before {
		return after, nil
	}
	return s.commit(before, after)
}

// commit saves after, which replaces before, recording both in the
// history. The before image is only needed if the history doesn't
// already end with it.
func (s *Session) commit(before, after Runway) (Runway, error) {
	pushed := 1
	if top, ok := s.history.Top(); !ok || top.Op != util.UndoSave || top.Record != before {
		s.history.Save(before)
		pushed++
	}
	s.history.Save(after)

	if err := s.store.Save(after); err != nil {
		for range pushed {
			s.history.Retract()
		}
		s.lg.Warn("unable to save runway", "address", after.Addr, "error", err)

		r, _ := s.Revert(after.Addr)
		return r, fmt.Errorf("%s %s/%s: %w", after.Airport, after.HE.Ident, after.LE.Ident, err)
	}

	s.lg.Debug("saved runway", "address", after.Addr, "axes", after.Axes.String())
	return after, nil
}

// Delete removes the runway at addr; undoing the deletion restores it.
func (s *Session) Delete(addr util.Address) error {
	r, ok := s.store.Fetch(addr)
	if !ok {
		return ErrNoSuchRecord
	}
	s.tasks.Cancel(addr)

	pushed := 1
	if top, ok := s.history.Top(); !ok || top.Op != util.UndoSave || top.Record != r {
		s.history.Save(r)
		pushed++
	}
	s.history.Erase(r)

	if err := s.store.Delete(addr); err != nil {
		for range pushed {
			s.history.Retract()
		}
		s.lg.Warn("unable to delete runway", "address", addr, "error", err)
		return err
	}
	return nil
}

// changes reports whether replaying e would modify the store.
func (s *Session) changes(e util.UndoEntry[Runway]) bool {
	cur, exists := s.store.Fetch(e.Record.Addr)
	if e.Op == util.UndoErase {
		return exists
	}
	return !exists || cur != e.Record
}

// apply makes the store match a history entry. It reports whether that
// changed anything.
func (s *Session) apply(e util.UndoEntry[Runway]) (bool, error) {
	if !s.changes(e) {
		return false, nil
	}
	// Any elevation lookup in flight was for a different version of the
	// runway.
	addr := e.Record.Addr
	s.tasks.Cancel(addr)
	if e.Op == util.UndoErase {
		return true, s.store.Delete(addr)
	}
	return true, s.store.Save(e.Record)
}

// step moves through the history with next until it reaches an entry
// that changes the store and applies it. If there is no such entry or the
// store fails, the history is left where it was.
func (s *Session) step(what string, next func() (util.UndoEntry[Runway], bool), none error) (Runway, error) {
	m := s.history.Mark()
	for {
		e, ok := next()
		if !ok {
			s.history.Reset(m)
			return Runway{}, none
		}

		changed, err := s.apply(e)
		if err != nil {
			s.history.Reset(m)
			s.lg.Warn("unable to "+what, "address", e.Record.Addr, "error", err)
			return Runway{}, err
		}
		if changed {
			s.lg.Debug(what, "op", e.Op.String(), "address", e.Record.Addr)
			return e.Record, nil
		}
	}
}

// possible reports whether step would find an entry to apply, without
// changing the history or the store.
func (s *Session) possible(next func() (util.UndoEntry[Runway], bool)) bool {
	m := s.history.Mark()
	defer s.history.Reset(m)
	for {
		e, ok := next()
		if !ok {
			return false
		}
		if s.changes(e) {
			return true
		}
	}
}

// Undo steps back through the history to the previous state of the
// store and returns the runway it affected.
func (s *Session) Undo() (Runway, error) {
	return s.step("undo", s.history.Undo, ErrNothingToUndo)
}

func (s *Session) Redo() (Runway, error) {
	return s.step("redo", s.history.Redo, ErrNothingToRedo)
}

// CanUndo and CanRedo report whether Undo and Redo would succeed given
// the current contents of the store.
func (s *Session) CanUndo() bool { return s.possible(s.history.Undo) }

func (s *Session) CanRedo() bool { return s.possible(s.history.Redo) }

///////////////////////////////////////////////////////////////////////////
// Elevations

func runwayPositions(r Runway) []math.Point2LL {
	return []math.Point2LL{r.HE.Coord, r.LE.Coord}
}

func applyRunwayElevations(r *Runway, e []float32) bool {
	if len(e) != 2 {
		return false
	}
	r.HE.Elevation = int32(math.Round(float64(e[0])))
	r.LE.Elevation = int32(math.Round(float64(e[1])))
	return true
}

// RequestElevation starts a background lookup of the elevations of the
// runway's thresholds. When it completes, the runway is updated and
// saved as a further edit. A request already outstanding for the runway
// is cancelled.
func (s *Session) RequestElevation(addr util.Address) (elev.TaskState, error) {
	if s.elev == nil {
		return elev.TaskInert, ErrNoElevationService
	}
	s.tasks.Cancel(addr)

	funcs := elev.TaskFuncs[Runway]{
		Fetch:     s.store.Fetch,
		Positions: runwayPositions,
		Apply:     applyRunwayElevations,
		Save: func(r Runway) {
			before, ok := s.store.Fetch(r.Addr)
			if !ok || before == r {
				return
			}
			if _, err := s.commit(before, r); err != nil {
				s.lg.Warn("unable to save runway elevations", "address", r.Addr, "error", err)
			}
		},
	}

	task := elev.NewTask(s.elev, s.disp, addr, funcs, s.lg)
	s.tasks.Add(task)
	state := task.State()
	task.Unreference()
	return state, nil
}

// PendingElevations returns the number of elevation lookups outstanding.
func (s *Session) PendingElevations() int {
	return s.tasks.Pending()
}

// Pump runs any completed elevation lookups' updates and returns how many
// there were.
func (s *Session) Pump() int {
	return s.disp.Drain()
}

// Wait pumps completed elevation lookups until none are outstanding or
// ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.disp.Drain()
		if s.tasks.Pending() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.disp.Ready():
		}
	}
}

// Run pumps completed elevation lookups until ctx is done; it's for
// sessions that dedicate a goroutine to the controller.
func (s *Session) Run(ctx context.Context) error {
	return s.disp.Run(ctx)
}

// Close cancels any outstanding elevation lookups.
func (s *Session) Close() {
	if n := s.tasks.CancelAll(); n > 0 {
		s.lg.Infof("cancelled %d elevation lookups", n)
	}
	s.disp.Drain()
}
