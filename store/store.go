// store/store.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package store

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/brunoga/deep"

	"github.com/mmp/aerodb/log"
	"github.com/mmp/aerodb/util"
)

// FileVersion is written at the start of store files; bump it when the
// record layout changes incompatibly.
const FileVersion = 1

// PostDecoder may be implemented by a record's pointer type to rebuild
// state that isn't persisted.
type PostDecoder interface {
	PostDecode()
}

// Store holds records by address. It is safe for concurrent use, though
// in practice it's only modified from an edit session's controller
// goroutine. Records are copied on the way in and out, so callers never
// share memory with the store.
type Store[R util.Record] struct {
	mu       sync.Mutex
	records  map[util.Address]R
	next     util.Address
	readOnly bool
	lg       *log.Logger
}

func New[R util.Record](lg *log.Logger) *Store[R] {
	return &Store[R]{
		records: make(map[util.Address]R),
		next:    1,
		lg:      lg,
	}
}

// NewAddress reserves an address for a record that will be saved later.
func (s *Store[R]) NewAddress() util.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.next
	s.next++
	return a
}

func (s *Store[R]) Fetch(a util.Address) (R, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[a]
	if !ok {
		return r, false
	}
	return deep.MustCopy(r), true
}

func (s *Store[R]) Save(r R) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.Valid() {
		return ErrNoAddress
	}
	if s.readOnly {
		return ErrReadOnly
	}

	a := r.Address()
	s.records[a] = deep.MustCopy(r)
	if a >= s.next {
		s.next = a + 1
	}
	return nil
}

func (s *Store[R]) Delete(a util.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return ErrReadOnly
	}
	if _, ok := s.records[a]; !ok {
		return ErrNoRecord
	}
	delete(s.records, a)
	return nil
}

// Addresses returns the addresses of all records in increasing order.
func (s *Store[R]) Addresses() []util.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.records))
}

func (s *Store[R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// SetReadOnly makes subsequent Save and Delete calls fail with
// ErrReadOnly (or allows them again).
func (s *Store[R]) SetReadOnly(ro bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = ro
}

type storeFile[R util.Record] struct {
	Version int
	Records []R
}

// Encode writes all of the records to w, msgpack-encoded and zstd
// compressed.
func (s *Store[R]) Encode(w io.Writer) error {
	s.mu.Lock()
	f := storeFile[R]{Version: FileVersion}
	for _, r := range s.records {
		f.Records = append(f.Records, r)
	}
	s.mu.Unlock()

	slices.SortFunc(f.Records, func(a, b R) int { return cmp.Compare(a.Address(), b.Address()) })
	return util.EncodeMsgpackZstd(w, f)
}

// Decode replaces the store's contents with the records read from r.
// Records without an address are dropped.
func (s *Store[R]) Decode(r io.Reader) error {
	var f storeFile[R]
	if err := util.DecodeMsgpackZstd(r, &f); err != nil {
		return err
	}
	if f.Version != FileVersion {
		return fmt.Errorf("version %d: %w", f.Version, ErrUnsupportedVersion)
	}

	records := make(map[util.Address]R, len(f.Records))
	next := util.Address(1)
	for i := range f.Records {
		rec := &f.Records[i]
		if !(*rec).Valid() {
			s.lg.Warnf("dropping record %d without an address", i)
			continue
		}
		if pd, ok := any(rec).(PostDecoder); ok {
			pd.PostDecode()
		}

		a := (*rec).Address()
		if _, ok := records[a]; ok {
			s.lg.Warnf("%d: duplicate record address; keeping the last one", a)
		}
		records[a] = *rec
		next = max(next, a+1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.next = next
	return nil
}

// Load returns a store holding the records in the given file.
func Load[R util.Record](path string, lg *log.Logger) (*Store[R], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := New[R](lg)
	if err := s.Decode(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lg.Infof("%s: loaded %d records", path, s.Len())
	return s, nil
}

// Flush writes the store to the given file, replacing it atomically.
func (s *Store[R]) Flush(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op once renamed

	if err := s.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}

	s.lg.Infof("%s: wrote %d records", path, s.Len())
	return nil
}
