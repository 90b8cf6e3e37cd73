package reactive

// Snapshot produces a detached, non-tracked copy of a store, suitable for
// serialization. Reading a snapshot never subscribes anything, and mutating
// it never notifies anything.
//
// Detachment is deep for the canonical shapes (map[string]any records and
// []any sequences, which wrap into child containers). Other reference-typed
// values ([]int, map[string]int, pointers) pass through containers opaquely
// and are shared with the snapshot, exactly as they are shared with whoever
// else holds them.
func Snapshot(s *Store) map[string]any {
	return s.Snapshot()
}

// Snapshot returns a detached plain record: child stores and lists are
// deep-copied recursively, scalars copied as-is.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]any, len(s.fields))
	for k, e := range s.fields {
		if e.present {
			out[k] = snapshotValue(e.value)
		}
	}
	return out
}

// Snapshot returns a detached plain sequence.
func (l *List) Snapshot() []any {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]any, len(l.items))
	for i, v := range l.items {
		out[i] = snapshotValue(v)
	}
	return out
}

func snapshotValue(v any) any {
	switch val := v.(type) {
	case *Store:
		return val.Snapshot()
	case *List:
		return val.Snapshot()
	default:
		return v
	}
}
