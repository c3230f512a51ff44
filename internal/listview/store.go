package listview

import (
	"fmt"
	"maps"
	"slices"
	"sync/atomic"
)

// Snapshot is an immutable point-in-time view of a store's collection.
type Snapshot[T any] struct {
	items []T
	index map[string]int
}

func newSnapshot[T any](id func(T) string, items []T) (*Snapshot[T], error) {
	s := &Snapshot[T]{
		items: items,
		index: make(map[string]int, len(items)),
	}
	for i, item := range items {
		key := id(item)
		if _, dup := s.index[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, key)
		}
		s.index[key] = i
	}
	return s, nil
}

// Len returns the number of records.
func (s *Snapshot[T]) Len() int { return len(s.items) }

// Items returns the records in store order. The slice is a copy.
func (s *Snapshot[T]) Items() []T { return slices.Clone(s.items) }

// Get returns the record with the given id.
func (s *Snapshot[T]) Get(id string) (T, bool) {
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Has reports whether the snapshot contains id.
func (s *Snapshot[T]) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Store holds the authoritative in-memory collection of one screen.
// Every mutation builds a new Snapshot and swaps it in with a single
// pointer store; snapshots handed out earlier are never modified.
// Mutations must come from one goroutine; Snapshot is safe from any.
type Store[T any] struct {
	id      func(T) string
	current atomic.Pointer[Snapshot[T]]
	retired map[string]struct{}
}

// NewStore creates a store holding items.
func NewStore[T any](id func(T) string, items []T) (*Store[T], error) {
	st := &Store[T]{id: id, retired: make(map[string]struct{})}
	if err := st.Replace(items); err != nil {
		return nil, err
	}
	return st, nil
}

// Snapshot returns the current snapshot.
func (st *Store[T]) Snapshot() *Snapshot[T] {
	return st.current.Load()
}

// Replace swaps the whole collection. A collection holding an id removed
// earlier in the store's lifetime is rejected with ErrDuplicateID and the
// store is left untouched.
func (st *Store[T]) Replace(items []T) error {
	snap, err := newSnapshot(st.id, slices.Clone(items))
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	for id := range snap.index {
		if _, used := st.retired[id]; used {
			return fmt.Errorf("replace: %w: %q", ErrDuplicateID, id)
		}
	}
	st.current.Store(snap)
	return nil
}

// MutateOne replaces the record matching id with updater(record).
// It reports false and leaves the store untouched if id is absent.
// The updater must keep the record's id.
func (st *Store[T]) MutateOne(id string, updater func(T) T) bool {
	prev := st.current.Load()
	i, ok := prev.index[id]
	if !ok {
		return false
	}
	items := slices.Clone(prev.items)
	items[i] = updater(items[i])
	st.current.Store(&Snapshot[T]{items: items, index: prev.index})
	return true
}

// MutateAll applies updater to every record and returns how many there were.
func (st *Store[T]) MutateAll(updater func(T) T) int {
	prev := st.current.Load()
	items := make([]T, len(prev.items))
	for i, item := range prev.items {
		items[i] = updater(item)
	}
	st.current.Store(&Snapshot[T]{items: items, index: prev.index})
	return len(items)
}

// RemoveOne drops the record matching id and retires the id.
// It reports false and leaves the store untouched if id is absent.
func (st *Store[T]) RemoveOne(id string) bool {
	prev := st.current.Load()
	i, ok := prev.index[id]
	if !ok {
		return false
	}
	items := make([]T, 0, len(prev.items)-1)
	items = append(items, prev.items[:i]...)
	items = append(items, prev.items[i+1:]...)
	snap, _ := newSnapshot(st.id, items)
	st.current.Store(snap)
	st.retired[id] = struct{}{}
	return true
}

// Insert appends item. Ids present in the store or removed earlier in
// the store's lifetime are rejected with ErrDuplicateID.
func (st *Store[T]) Insert(item T) error {
	key := st.id(item)
	prev := st.current.Load()
	if _, used := st.retired[key]; used || prev.Has(key) {
		return fmt.Errorf("insert %q: %w", key, ErrDuplicateID)
	}
	items := make([]T, 0, len(prev.items)+1)
	items = append(items, prev.items...)
	items = append(items, item)
	index := maps.Clone(prev.index)
	index[key] = len(items) - 1
	st.current.Store(&Snapshot[T]{items: items, index: index})
	return nil
}

// Retired reports whether id was removed from this store.
func (st *Store[T]) Retired(id string) bool {
	_, ok := st.retired[id]
	return ok
}

// RemoveAll empties the store, retires every id and returns how many
// records were dropped.
func (st *Store[T]) RemoveAll() int {
	prev := st.current.Load()
	for id := range prev.index {
		st.retired[id] = struct{}{}
	}
	st.current.Store(&Snapshot[T]{index: map[string]int{}})
	return len(prev.items)
}

// restore swaps prev back in and un-retires ids, undoing a failed mutation.
func (st *Store[T]) restore(prev *Snapshot[T], ids ...string) {
	for _, id := range ids {
		delete(st.retired, id)
	}
	st.current.Store(prev)
}
