package reactive

// Batch groups the writes performed inside fn into a single notification
// flush. Effects triggered by those writes are collected, deduplicated,
// and run once each when the outermost batch closes, observing the final
// values of every write.
//
// Batches nest: only the outermost exit flushes. The flush runs from a
// defer, so a panic inside fn still flushes pending work before
// propagating to the caller.
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flushPending(ctx)
		}
	}()

	fn()
}

// BatchValue is Batch for a function with a result.
func BatchValue[T any](fn func() T) T {
	var out T
	Batch(func() {
		out = fn()
	})
	return out
}

// Untracked runs fn without attributing its reads to the current
// computation. For single signal reads, Peek is the cheaper equivalent.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// UntrackedValue is Untracked for a function with a result.
func UntrackedValue[T any](fn func() T) T {
	var out T
	Untracked(func() {
		out = fn()
	})
	return out
}
