package reactive

import "sync"

// source is a node in the dependency graph: the set of listeners subscribed
// to one reactive value (a signal, a memo, or one field of a store).
// Subscribers are kept in insertion order so that one write notifying
// several independent computations does so deterministically.
type source struct {
	id uint64

	mu   sync.RWMutex
	subs []Listener
}

func newSource() *source {
	return &source{id: nextID()}
}

// sourceTracker is implemented by computations that record which sources
// they subscribed to during a run, so stale subscriptions can be dropped
// before the next run.
type sourceTracker interface {
	addSource(s *source)
}

// track subscribes the currently running computation (if any) to this
// source. Reads outside any computation are untracked by design.
func (s *source) track() {
	l := getCurrentListener()
	if l == nil {
		return
	}

	s.subscribe(l)

	if t, ok := l.(sourceTracker); ok {
		t.addSource(s)
	}
}

// subscribe adds a listener, deduplicating by listener ID.
// Disposed listeners are refused: disposal is final.
func (s *source) subscribe(l Listener) {
	if l == nil {
		return
	}
	if d, ok := l.(disposedChecker); ok && d.isDisposed() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}

	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener, preserving the order of the remaining
// subscribers.
func (s *source) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify marks every subscriber dirty. The subscriber list is copied first
// so no lock is held while listeners run; each listener decides whether to
// execute now or queue for the current batch.
func (s *source) notify() {
	s.mu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// takeSubs removes and returns all subscribers. Used by disposal paths.
func (s *source) takeSubs() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.subs
	s.subs = nil
	return subs
}
