package reactive

import (
	"sort"
	"sync"
)

// Store is a reactive container over a record of named fields. Each field
// has its own subscriber set, so a computation reading one field re-runs
// only when that field changes. Go has no implicit property interception,
// so access goes through explicit accessors keyed by field name; the
// tracking precision is the same.
//
// Nested records (map[string]any) wrap recursively into child Stores and
// nested sequences ([]any) into Lists, so deep mutation stays tracked.
// A Store is never copied implicitly; Snapshot produces a detached plain
// record.
type Store struct {
	id uint64

	mu     sync.Mutex
	fields map[string]*fieldEntry

	// shape fires when a field is added or removed, for computations that
	// enumerate the record (Keys, Snapshot-in-effect patterns).
	shape source
}

// fieldEntry is one node of the dependency graph: the current value of a
// field plus its subscribers. Entries are created on first tracked read or
// first write and survive deletion of the field, so subscribers registered
// before a delete still hear about a later re-add (arena-style storage
// with explicit disposal, rather than entry churn).
type fieldEntry struct {
	src     source
	value   any
	present bool
}

// NewStore wraps a plain record into a reactive container. The input map
// is read once; later mutations of it are invisible to the store.
//
// Values in the canonical shape (map[string]any, []any) wrap recursively
// and are deep-copied by Snapshot. Any other value, reference-typed ones
// included, is stored opaquely: change tracking and snapshots treat it as
// a scalar.
func NewStore(record map[string]any) *Store {
	s := &Store{
		id:     nextID(),
		fields: make(map[string]*fieldEntry, len(record)),
		shape:  source{id: nextID()},
	}

	for k, v := range record {
		s.fields[k] = &fieldEntry{
			src:     source{id: nextID()},
			value:   wrapValue(v),
			present: true,
		}
	}

	return s
}

// wrapValue recursively wraps nested records and sequences so their
// mutation is tracked too. Scalars pass through.
func wrapValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return NewStore(val)
	case []any:
		return NewList(val)
	default:
		return v
	}
}

// Get returns the value of a field, subscribing the current computation to
// it. Reading an absent field returns nil but still subscribes, so the
// computation re-runs when the field appears.
func (s *Store) Get(field string) any {
	s.mu.Lock()
	e := s.entry(field)
	value := e.value
	s.mu.Unlock()

	e.src.track()

	return value
}

// Has reports whether the field is present, subscribing to that field.
func (s *Store) Has(field string) bool {
	s.mu.Lock()
	e := s.entry(field)
	present := e.present
	s.mu.Unlock()

	e.src.track()

	return present
}

// Set writes a field. If the new value differs from the old one it is
// stored and the field's subscribers are notified; same-value writes are a
// no-op with respect to notification. Record and sequence values are
// wrapped before storing.
func (s *Store) Set(field string, value any) {
	s.mu.Lock()
	e := s.entry(field)

	appeared := !e.present
	changed := appeared || !storeValueEquals(e.value, value)
	if changed {
		e.value = wrapValue(value)
		e.present = true
	}
	s.mu.Unlock()

	if changed {
		signalWriteHook()
		e.src.notify()
	}
	if appeared {
		s.shape.notify()
	}
}

// Delete removes a field, notifying its subscribers and shape listeners.
// Deleting an absent field is a no-op.
func (s *Store) Delete(field string) {
	s.mu.Lock()
	e, ok := s.fields[field]
	if !ok || !e.present {
		s.mu.Unlock()
		return
	}
	e.value = nil
	e.present = false
	s.mu.Unlock()

	signalWriteHook()
	e.src.notify()
	s.shape.notify()
}

// Keys returns the present field names in sorted order, subscribing the
// current computation to shape changes.
func (s *Store) Keys() []string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.fields))
	for k, e := range s.fields {
		if e.present {
			keys = append(keys, k)
		}
	}
	s.mu.Unlock()

	s.shape.track()

	sort.Strings(keys)
	return keys
}

// Len returns the number of present fields, subscribing to shape changes.
func (s *Store) Len() int {
	s.mu.Lock()
	n := 0
	for _, e := range s.fields {
		if e.present {
			n++
		}
	}
	s.mu.Unlock()

	s.shape.track()

	return n
}

// ID returns the unique identifier for this store.
func (s *Store) ID() uint64 {
	return s.id
}

// entry returns the field's dependency-graph node, creating it on first
// access. Callers hold s.mu.
func (s *Store) entry(field string) *fieldEntry {
	e, ok := s.fields[field]
	if !ok {
		e = &fieldEntry{src: source{id: nextID()}}
		s.fields[field] = e
	}
	return e
}

// storeValueEquals decides whether a write changed a field. A record or
// sequence value always counts as a change: it replaces the wrapped child
// container.
func storeValueEquals(old, next any) bool {
	switch next.(type) {
	case map[string]any, []any:
		return false
	}
	return equalsAny(old, next)
}
