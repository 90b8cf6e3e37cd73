package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// trackingContext holds the reactive state for one goroutine: which
// computation is currently running, which owner adopts new primitives, and
// the batch/flush scheduling state.
type trackingContext struct {
	// currentListener is the computation attributed with reads.
	// nil means reads are untracked.
	currentListener Listener

	// currentOwner adopts effects created while it is set.
	currentOwner *Owner

	// batchDepth counts nested Batch() calls. While > 0, triggered effects
	// queue instead of running immediately.
	batchDepth int

	// flushing is true while the pending queue is draining; effects
	// triggered during a flush pass queue for the next pass.
	flushing bool

	// pending holds effects queued for the next flush pass, in insertion
	// order. An effect appears at most once (guarded by its pending flag).
	pending []*Effect
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getTrackingContext returns the tracking context for the current
// goroutine, creating one on first use.
func getTrackingContext() *trackingContext {
	gid := goid.Get()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the computation currently being tracked, or
// nil if no tracking is active on this goroutine.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the tracked computation and returns the previous
// one so callers can restore it, giving stack semantics to nested runs.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// getCurrentOwner returns the owner in scope, or nil.
func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner sets the owner in scope and returns the previous one.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// deferred reports whether triggered effects must queue rather than run:
// inside a batch, or while a flush pass is draining.
func deferred() bool {
	ctx := getTrackingContext()
	return ctx.batchDepth > 0 || ctx.flushing
}

// enqueueEffect appends an effect to the pending queue. Callers must have
// won the effect's pending CAS so the queue stays duplicate-free.
func enqueueEffect(e *Effect) {
	ctx := getTrackingContext()
	ctx.pending = append(ctx.pending, e)
}

// CleanupGoroutineContext removes the tracking context for the current
// goroutine. Call it before a goroutine that used the engine exits, so the
// context table does not grow under goroutine churn. Optional: contexts are
// small, and a reused goroutine ID simply overwrites the old entry.
func CleanupGoroutineContext() {
	trackingContexts.Delete(goid.Get())
}

// WithListener runs fn with l as the tracked computation, restoring the
// previous one afterwards.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// WithOwner runs fn with the given owner in scope. Use this when spawning
// goroutines that create effects belonging to an existing scope:
//
//	go func() {
//	    reactive.WithOwner(owner, func() {
//	        reactive.CreateEffect(...)
//	    })
//	}()
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}
