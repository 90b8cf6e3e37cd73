package reactive

import (
	"sort"
	"sync"
)

// List is a reactive container over an ordered sequence. Element reads and
// writes track per index; structural mutations (append, insert, remove,
// clear) are additionally treated as a write to a synthetic shape entry,
// so a computation iterating the sequence re-runs when membership changes,
// not only when an element's value changes. Structural mutations notify
// both the shape entry and every index entry at or after the affected
// position.
type List struct {
	id uint64

	mu    sync.Mutex
	items []any

	// entries holds per-index subscriber sets, created on demand.
	entries map[int]*source

	// shape fires on any membership change.
	shape source
}

// NewList wraps a plain sequence into a reactive container. Nested records
// and sequences wrap recursively.
func NewList(items []any) *List {
	l := &List{
		id:      nextID(),
		items:   make([]any, len(items)),
		entries: make(map[int]*source),
		shape:   source{id: nextID()},
	}

	for i, v := range items {
		l.items[i] = wrapValue(v)
	}

	return l
}

// Get returns the element at index i, subscribing the current computation
// to that position. An out-of-range read returns nil and subscribes to
// shape, so the computation re-runs if the sequence grows into range.
func (l *List) Get(i int) any {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		l.shape.track()
		return nil
	}
	value := l.items[i]
	e := l.entryAt(i)
	l.mu.Unlock()

	e.track()

	return value
}

// Set replaces the element at index i. Out-of-range writes are a no-op;
// same-value writes notify nothing.
func (l *List) Set(i int, value any) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return
	}
	changed := !storeValueEquals(l.items[i], value)
	var e *source
	if changed {
		l.items[i] = wrapValue(value)
		e = l.entryAt(i)
	}
	l.mu.Unlock()

	if changed {
		signalWriteHook()
		e.notify()
	}
}

// Len returns the sequence length, subscribing to shape changes.
func (l *List) Len() int {
	l.mu.Lock()
	n := len(l.items)
	l.mu.Unlock()

	l.shape.track()

	return n
}

// Append adds an element at the end.
func (l *List) Append(value any) {
	l.mu.Lock()
	i := len(l.items)
	l.items = append(l.items, wrapValue(value))
	affected := l.entriesFrom(i)
	l.mu.Unlock()

	l.structuralNotify(affected)
}

// Insert places an element at index i, shifting later elements. Indices
// out of range clamp to the ends.
func (l *List) Insert(i int, value any) {
	l.mu.Lock()
	if i < 0 {
		i = 0
	}
	if i > len(l.items) {
		i = len(l.items)
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = wrapValue(value)
	affected := l.entriesFrom(i)
	l.mu.Unlock()

	l.structuralNotify(affected)
}

// RemoveAt deletes the element at index i, shifting later elements.
// Out-of-range removals are a no-op.
func (l *List) RemoveAt(i int) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	affected := l.entriesFrom(i)
	l.mu.Unlock()

	l.structuralNotify(affected)
}

// Clear removes every element.
func (l *List) Clear() {
	l.mu.Lock()
	if len(l.items) == 0 {
		l.mu.Unlock()
		return
	}
	l.items = nil
	affected := l.entriesFrom(0)
	l.mu.Unlock()

	l.structuralNotify(affected)
}

// ForEach invokes fn for each element, subscribing to shape and to every
// visited index.
func (l *List) ForEach(fn func(i int, value any)) {
	l.mu.Lock()
	items := make([]any, len(l.items))
	copy(items, l.items)
	entries := make([]*source, len(l.items))
	for i := range l.items {
		entries[i] = l.entryAt(i)
	}
	l.mu.Unlock()

	l.shape.track()
	for i, v := range items {
		entries[i].track()
		fn(i, v)
	}
}

// Items returns a shallow copy of the sequence (elements still wrapped),
// subscribing to shape and every index.
func (l *List) Items() []any {
	var out []any
	l.ForEach(func(i int, value any) {
		out = append(out, value)
	})
	return out
}

// ID returns the unique identifier for this list.
func (l *List) ID() uint64 {
	return l.id
}

// entryAt returns the dependency-graph node for index i, creating it on
// first access. Callers hold l.mu.
func (l *List) entryAt(i int) *source {
	e, ok := l.entries[i]
	if !ok {
		e = newSource()
		l.entries[i] = e
	}
	return e
}

// entriesFrom collects the index entries at or after position from, in
// ascending index order. Callers hold l.mu.
func (l *List) entriesFrom(from int) []*source {
	idxs := make([]int, 0, len(l.entries))
	for i := range l.entries {
		if i >= from {
			idxs = append(idxs, i)
		}
	}
	sort.Ints(idxs)

	out := make([]*source, len(idxs))
	for n, i := range idxs {
		out[n] = l.entries[i]
	}
	return out
}

// structuralNotify fires the shape entry and the affected index entries.
func (l *List) structuralNotify(affected []*source) {
	signalWriteHook()
	l.shape.notify()
	for _, e := range affected {
		e.notify()
	}
}
