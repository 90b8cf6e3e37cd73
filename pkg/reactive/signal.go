package reactive

import "sync"

// Signal is a reactive value container. Reading a Signal during a tracked
// computation (effect run, memo computation, or watch expression)
// automatically subscribes that computation to future changes.
type Signal[T any] struct {
	src source

	// value is the current signal value, guarded by mu.
	value T
	mu    sync.RWMutex

	// equal decides whether a write changed the value.
	// nil means defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		src:   source{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current computation.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Track after releasing the value lock to prevent deadlock when a
	// subscriber runs synchronously.
	s.src.track()

	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
// Same-value writes notify nothing.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		signalWriteHook()
		s.src.notify()
	}
}

// Update atomically reads and updates the value. The function receives the
// current value and returns the new one.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		signalWriteHook()
		s.src.notify()
	}
}

// WithEquals configures a custom equality function, for value types where
// reflect.DeepEqual is too expensive or has the wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.src.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}
