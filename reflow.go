// Package reflow provides the public API for the Reflow reactive state
// engine.
//
// This is the recommended import for most consumers:
//
//	import "github.com/reflow-dev/reflow"
//
// Usage:
//
//	user := reflow.NewStore(map[string]any{"name": "Ada", "age": 36})
//	e := reflow.CreateEffect(func() reflow.Cleanup {
//	    fmt.Println(user.Get("name"), user.Get("age"))
//	    return nil
//	})
//	reflow.Batch(func() {
//	    user.Set("name", "Grace")
//	    user.Set("age", 37)
//	})  // effect re-runs once
//	e.Dispose()
//
// The engine itself lives in pkg/reactive; this package only re-exports
// its surface.
package reflow

import "github.com/reflow-dev/reflow/pkg/reactive"

// =============================================================================
// Type re-exports
// =============================================================================

// Store is a reactive container over a record of named fields.
type Store = reactive.Store

// List is a reactive container over an ordered sequence.
type List = reactive.List

// Effect is an eager tracked computation with a Dispose method.
type Effect = reactive.Effect

// Cleanup is the optional teardown function an effect returns.
type Cleanup = reactive.Cleanup

// Owner is a disposal scope grouping effects and cleanups.
type Owner = reactive.Owner

// Hooks receives engine events for instrumentation.
type Hooks = reactive.Hooks

// =============================================================================
// Containers
// =============================================================================

// NewStore wraps a plain record into a reactive container.
func NewStore(record map[string]any) *Store {
	return reactive.NewStore(record)
}

// NewList wraps a plain sequence into a reactive container.
func NewList(items []any) *List {
	return reactive.NewList(items)
}

// Snapshot produces a detached, non-tracked deep copy of a store.
func Snapshot(s *Store) map[string]any {
	return reactive.Snapshot(s)
}

// =============================================================================
// Computations
// =============================================================================

// NewSignal creates a single reactive value.
func NewSignal[T any](initial T) *reactive.Signal[T] {
	return reactive.NewSignal(initial)
}

// NewMemo creates a lazily recomputed, cached derived value.
func NewMemo[T any](compute func() T) *reactive.Memo[T] {
	return reactive.NewMemo(compute)
}

// CreateEffect registers an eager tracked computation. It runs immediately
// and re-runs on every relevant change; dispose via the returned Effect.
func CreateEffect(fn func() Cleanup, opts ...reactive.EffectOption) *Effect {
	return reactive.CreateEffect(fn, opts...)
}

// Watch registers a change observer: onChange(newValue, oldValue) fires
// only when the tracked expression's value actually changes, never at
// registration.
func Watch[T any](reader func() T, onChange func(newValue, oldValue T)) *Effect {
	return reactive.Watch(reader, onChange)
}

// =============================================================================
// Scheduling
// =============================================================================

// Batch groups the writes inside fn into a single notification flush.
func Batch(fn func()) {
	reactive.Batch(fn)
}

// BatchValue is Batch for a function with a result.
func BatchValue[T any](fn func() T) T {
	return reactive.BatchValue(fn)
}

// Untracked runs fn without attributing its reads to any computation.
func Untracked(fn func()) {
	reactive.Untracked(fn)
}

// =============================================================================
// Scopes
// =============================================================================

// NewOwner creates a disposal scope; nil parent makes a root scope.
func NewOwner(parent *Owner) *Owner {
	return reactive.NewOwner(parent)
}

// OnCleanup registers fn with the owner currently in scope.
func OnCleanup(fn func()) {
	reactive.OnCleanup(fn)
}
