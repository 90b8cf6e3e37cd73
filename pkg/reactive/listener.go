package reactive

// Listener is anything that can be notified when a dependency changes.
// Effects and memos implement it: an effect schedules a re-run, a memo
// invalidates its cached value.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used to deduplicate subscriber sets.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// disposable is implemented by listeners that can be permanently
// unregistered. Disposing a memo cascades to disposable subscribers.
type disposable interface {
	Dispose()
}

// disposedChecker lets subscriber sets refuse registration of listeners
// that have already been disposed.
type disposedChecker interface {
	isDisposed() bool
}
