// util/undo.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"github.com/brunoga/deep"
)

// MaxUndo is the default number of snapshots an UndoRedoStack retains.
const MaxUndo = 1024

type UndoOp int

const (
	// UndoSave snapshots hold the record as it was committed.
	UndoSave UndoOp = iota
	// UndoErase snapshots hold a record that was deleted; restoring one
	// means the record should not exist.
	UndoErase
)

func (op UndoOp) String() string {
	switch op {
	case UndoSave:
		return "save"
	case UndoErase:
		return "erase"
	default:
		return "unknown"
	}
}

type UndoEntry[T Record] struct {
	Op     UndoOp
	Record T
}

// UndoRedoStack is a bounded linear history of record snapshots. The
// snapshot just before the stack pointer is always the last committed
// state; committing after an Undo discards everything beyond it.
//
// Each snapshot is a deep copy of the record that was committed, so
// callers are free to keep mutating the values they pass in.
type UndoRedoStack[T Record] struct {
	entries []UndoEntry[T]
	p       int
	max     int
}

// NewUndoRedoStack returns a stack retaining at most max snapshots; if max
// is not positive, MaxUndo is used.
func NewUndoRedoStack[T Record](max int) *UndoRedoStack[T] {
	if max <= 0 {
		max = MaxUndo
	}
	return &UndoRedoStack[T]{max: max}
}

func (s *UndoRedoStack[T]) push(op UndoOp, r T) {
	s.entries = append(s.entries[:s.p], UndoEntry[T]{Op: op, Record: deep.MustCopy(r)})
	if n := len(s.entries) - s.max; n > 0 {
		// Evict the oldest; clear the dropped slots so they can be collected.
		clear(s.entries[:n])
		s.entries = s.entries[n:]
	}
	s.p = len(s.entries)
}

// Save records r as the new committed state.
func (s *UndoRedoStack[T]) Save(r T) {
	s.push(UndoSave, r)
}

// Erase records the deletion of r; undoing past it restores r.
func (s *UndoRedoStack[T]) Erase(r T) {
	s.push(UndoErase, r)
}

// Undo steps back one snapshot and returns the state that is now the last
// committed one. It returns false when there is nothing to undo or when
// the oldest retained snapshot has just been stepped over.
func (s *UndoRedoStack[T]) Undo() (UndoEntry[T], bool) {
	if s.p == 0 {
		return UndoEntry[T]{}, false
	}
	s.p--
	if s.p == 0 {
		return UndoEntry[T]{}, false
	}
	return s.entry(s.p - 1), true
}

// Redo returns the next snapshot and makes it the last committed state.
func (s *UndoRedoStack[T]) Redo() (UndoEntry[T], bool) {
	if s.p >= len(s.entries) {
		return UndoEntry[T]{}, false
	}
	e := s.entry(s.p)
	s.p++
	return e, true
}

// Top returns the last committed snapshot without moving the stack
// pointer.
func (s *UndoRedoStack[T]) Top() (UndoEntry[T], bool) {
	if s.p == 0 {
		return UndoEntry[T]{}, false
	}
	return s.entry(s.p - 1), true
}

// Retract removes the last committed snapshot, provided there is nothing
// to redo beyond it. It is used when a commit could not be persisted.
func (s *UndoRedoStack[T]) Retract() bool {
	if s.p == 0 || s.p != len(s.entries) {
		return false
	}
	s.p--
	s.entries[s.p] = UndoEntry[T]{}
	s.entries = s.entries[:s.p]
	return true
}

// Mark returns the current stack pointer so that a sequence of Undo or
// Redo calls can later be abandoned with Reset.
func (s *UndoRedoStack[T]) Mark() int { return s.p }

// Reset returns the stack pointer to a position previously returned by
// Mark. Positions that are no longer in the stack are ignored.
func (s *UndoRedoStack[T]) Reset(m int) {
	if m >= 0 && m <= len(s.entries) {
		s.p = m
	}
}

func (s *UndoRedoStack[T]) entry(i int) UndoEntry[T] {
	e := s.entries[i]
	return UndoEntry[T]{Op: e.Op, Record: deep.MustCopy(e.Record)}
}

func (s *UndoRedoStack[T]) CanUndo() bool { return s.p > 0 }

func (s *UndoRedoStack[T]) CanRedo() bool { return s.p < len(s.entries) }

// Len returns the number of retained snapshots.
func (s *UndoRedoStack[T]) Len() int { return len(s.entries) }
