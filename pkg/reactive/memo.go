package reactive

import (
	"sync"
	"sync/atomic"
	"time"
)

// Memo is a cached derived computation. It tracks its own dependencies and
// is lazy: the compute function never runs until the first read, and a
// dependency change only marks the cached value dirty; recomputation
// happens on the next read. A memo is itself a reactive source, so chains
// of derived values invalidate transitively while each link recomputes at
// most once per flush.
type Memo[T any] struct {
	src source

	// compute produces the memo's value from other reactive reads.
	compute func() T

	// value is the cached result, guarded by valueMu.
	value   T
	valueMu sync.RWMutex

	// valid is false while the cached value is stale.
	// It starts false: a memo is born dirty.
	valid atomic.Bool

	// computing breaks recursion on circular dependencies.
	computing atomic.Bool

	// sources are the dependencies of the latest computation.
	sources   []*source
	sourcesMu sync.Mutex

	disposed atomic.Bool
}

// NewMemo creates a derived value from a pure function of other reactive
// reads. The function does not run until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		src:     source{id: nextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if a dependency changed since
// the last read. It subscribes the current computation to this memo.
func (m *Memo[T]) Get() T {
	if !m.disposed.Load() {
		m.src.track()

		if !m.valid.Load() {
			m.recompute()
		}
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing. It still recomputes if the
// cached value is stale.
func (m *Memo[T]) Peek() T {
	if !m.disposed.Load() && !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cached value and propagates to this memo's own
// subscribers. It never recomputes. Implements the Listener interface.
//
// Invalidation is synchronous even inside a batch: deferring it would let a
// read between two batched writes observe a stale cache.
func (m *Memo[T]) MarkDirty() {
	if m.disposed.Load() {
		return
	}

	if m.valid.CompareAndSwap(true, false) {
		m.src.notify()
	}
}

// ID returns the unique identifier for this memo.
// Implements the Listener interface.
func (m *Memo[T]) ID() uint64 {
	return m.src.id
}

// addSource records a dependency of the current computation.
func (m *Memo[T]) addSource(s *source) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, existing := range m.sources {
		if existing == s {
			return
		}
	}
	m.sources = append(m.sources, s)
}

func (m *Memo[T]) clearSources() {
	m.sourcesMu.Lock()
	sources := m.sources
	m.sources = nil
	m.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(m)
	}
}

// recompute runs the compute function under tracking, refreshing the
// dependency set to whatever was read this time. valid is only set after
// the function returns: a panic leaves the memo dirty, so a bad result is
// never cached, and the panic propagates to the reader.
func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Circular dependency; the inner read sees the stale value.
		return
	}
	defer m.computing.Store(false)

	m.clearSources()

	old := setCurrentListener(m)
	defer setCurrentListener(old)

	start := memoComputeStart()
	newValue := m.compute()
	memoComputeEnd(start)

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	m.valid.Store(true)
}

// Dispose permanently unregisters the memo. Listeners chained onto it
// (watchers and effects subscribed to this memo) are disposed with it;
// Dispose is idempotent.
func (m *Memo[T]) Dispose() {
	if m.disposed.Swap(true) {
		return
	}

	m.clearSources()

	for _, sub := range m.src.takeSubs() {
		if d, ok := sub.(disposable); ok {
			d.Dispose()
		}
	}
}

func (m *Memo[T]) isDisposed() bool {
	return m.disposed.Load()
}

func memoComputeStart() time.Time {
	if h := currentHooks(); h != nil && h.MemoRecompute != nil {
		return time.Now()
	}
	return time.Time{}
}

func memoComputeEnd(start time.Time) {
	if start.IsZero() {
		return
	}
	if h := currentHooks(); h != nil && h.MemoRecompute != nil {
		h.MemoRecompute(time.Since(start))
	}
}
