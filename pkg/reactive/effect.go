package reactive

import (
	"sync"
	"sync/atomic"
	"time"
)

// Effect is an eager tracked computation. It runs once at creation and
// re-runs whenever any signal, memo, or store field it read during its
// latest run changes. The effect function may return a Cleanup that runs
// before the next run and at disposal.
type Effect struct {
	id uint64

	// fn is the effect function.
	fn func() Cleanup

	// name is an optional label used in debug logging.
	name string

	// cleanup is the cleanup returned by the latest run.
	cleanup Cleanup

	// sources are the dependency-graph nodes this effect subscribes to,
	// refreshed on every run.
	sources   []*source
	sourcesMu sync.Mutex

	// owner is the scope that disposes this effect, if any.
	owner *Owner

	// pending is set while the effect sits in a flush queue.
	pending atomic.Bool

	// running is set for the duration of a run so re-entrant triggers
	// collapse into a single follow-up run instead of recursing.
	running atomic.Bool
	rerun   atomic.Bool

	disposed atomic.Bool
}

// EffectOption configures an Effect at creation.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// EffectName labels the effect for debug logging.
func EffectName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// CreateEffect registers an eager tracked computation. The function runs
// immediately; afterwards it re-runs on every relevant change. Outside a
// batch the re-run happens synchronously inside the triggering write.
//
// The returned Effect's Dispose method permanently unregisters it.
func CreateEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: getCurrentOwner(),
	}

	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	// runNow rather than run: a write to an own dependency during the
	// initial run must still collapse into a follow-up run.
	e.runNow()

	return e
}

// MarkDirty schedules the effect. Implements the Listener interface.
//
// At batch depth zero the effect runs synchronously; inside a batch or
// during a flush pass it queues for the next pass, deduplicated by the
// pending flag.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	if deferred() {
		if e.pending.CompareAndSwap(false, true) {
			enqueueEffect(e)
		}
		return
	}

	e.runNow()
}

// runNow executes the effect immediately. A trigger arriving while the
// effect is already mid-run (an effect writing to its own dependency) is
// collapsed into one additional run after the current run finishes, so the
// stack never grows with the number of re-entrant triggers.
func (e *Effect) runNow() {
	if e.running.Load() {
		e.rerun.Store(true)
		return
	}

	for {
		e.run()
		if e.disposed.Load() || !e.rerun.CompareAndSwap(true, false) {
			return
		}
	}
}

// flushRun is called by the scheduler while draining a flush pass.
func (e *Effect) flushRun() {
	if e.disposed.Load() {
		e.pending.Store(false)
		return
	}
	if e.pending.Load() {
		e.run()
	}
}

// run executes the effect function under tracking. The previous run's
// subscriptions are dropped first, so after the run the dependency graph
// references exactly the fields read this time.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)
	e.running.Store(true)
	defer e.running.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.clearSources()

	old := setCurrentListener(e)
	defer setCurrentListener(old)

	if Debug.LogEffects {
		logger().Debug("effect run", "id", e.id, "name", e.name)
	}

	start := effectRunStart()
	e.cleanup = e.fn()
	effectRunEnd(start)

	// A disposal issued from inside the run takes effect now that the run
	// is complete.
	if e.disposed.Load() {
		e.release()
	}
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// addSource records a dependency for the current run.
func (e *Effect) addSource(s *source) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, existing := range e.sources {
		if existing == s {
			return
		}
	}
	e.sources = append(e.sources, s)
}

// clearSources unsubscribes the effect from every source of its previous
// run.
func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(e)
	}
}

// Dispose permanently unregisters the effect: subscriptions are removed,
// pending scheduled runs are dropped, and re-registration is refused.
// Disposing from within the effect's own run is permitted and takes effect
// once the run completes. Dispose is idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	// Mid-run disposal defers the teardown to the end of run().
	if e.running.Load() {
		return
	}

	e.release()
}

// release runs the final cleanup and detaches from the dependency graph.
func (e *Effect) release() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.clearSources()
}

func (e *Effect) isDisposed() bool {
	return e.disposed.Load()
}

// effectRunStart returns a start time only when run timing is observed.
func effectRunStart() time.Time {
	if h := currentHooks(); h != nil && h.EffectRun != nil {
		return time.Now()
	}
	return time.Time{}
}

func effectRunEnd(start time.Time) {
	if start.IsZero() {
		return
	}
	if h := currentHooks(); h != nil && h.EffectRun != nil {
		h.EffectRun(time.Since(start))
	}
}
