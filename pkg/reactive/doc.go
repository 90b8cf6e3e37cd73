// Package reactive is the dependency-tracking and scheduling engine behind
// Reflow. It records which computations read which pieces of state and
// re-invokes exactly those computations when the state they read changes.
//
// # Core Types
//
// Signal[T] is a single reactive value:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes the current computation)
//	count.Set(5)          // Write (notifies subscribers)
//
// Store wraps a record of named fields so each field tracks independently:
//
//	user := NewStore(map[string]any{"name": "Ada", "age": 36})
//	name := user.Get("name")
//	user.Set("age", 37)
//
// Memo[T] is a cached derived computation, recomputed lazily on read:
//
//	doubled := NewMemo(func() int { return count.Get() * 2 })
//
// CreateEffect registers an eager computation that runs immediately and
// re-runs whenever something it read changes:
//
//	e := CreateEffect(func() Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//	e.Dispose()
//
// Watch layers old/new comparison on top of an effect and only reports
// actual transitions:
//
//	Watch(func() int { return count.Get() }, func(newV, oldV int) {
//	    fmt.Println(oldV, "->", newV)
//	})
//
// # Batching
//
// Batch groups writes into a single notification flush:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // dependents run once, observing both writes
//
// # Scheduling Model
//
// Scheduling is cooperative within one logical flow: outside a batch a write
// runs its dependents synchronously before returning; inside a batch (or
// during a flush) dependents are queued, deduplicated, and drained in
// insertion order when the outermost batch closes. Computations scheduled
// during a flush pass run in the next pass, never recursively. Panics raised
// by a computation propagate to whichever call triggered the run; the engine
// never swallows them.
//
// The tracking context is per-goroutine, so primitives are safe to use from
// multiple goroutines; spawning a goroutine inside a computation requires
// explicit context propagation via WithOwner.
package reactive
