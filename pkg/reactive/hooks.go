package reactive

import (
	"sync/atomic"
	"time"
)

// Hooks receives engine events for instrumentation. All fields are
// optional; a nil Hooks (the default) costs a single atomic load per
// event. Install with SetHooks; see the instrument package for a
// Prometheus/OpenTelemetry implementation.
type Hooks struct {
	// EffectRun observes one tracked effect execution.
	EffectRun func(d time.Duration)

	// MemoRecompute observes one derived-value computation.
	MemoRecompute func(d time.Duration)

	// FlushStart observes a flush beginning with the given queue length.
	FlushStart func(pending int)

	// FlushEnd observes a completed flush: total duration, number of
	// generations drained, and effects run.
	FlushEnd func(d time.Duration, generations, ran int)

	// SignalWrite observes a value-changing write.
	SignalWrite func()

	// WatcherFire observes a change observer invoking its callback.
	WatcherFire func()
}

var activeHooks atomic.Pointer[Hooks]

// SetHooks installs engine instrumentation hooks. Pass nil to remove.
func SetHooks(h *Hooks) {
	activeHooks.Store(h)
}

func currentHooks() *Hooks {
	return activeHooks.Load()
}

func signalWriteHook() {
	if h := currentHooks(); h != nil && h.SignalWrite != nil {
		h.SignalWrite()
	}
}

func watcherFireHook() {
	if h := currentHooks(); h != nil && h.WatcherFire != nil {
		h.WatcherFire()
	}
}
