package reactive

import "time"

// flushPending drains the pending effect queue after the outermost batch
// closes. The queue is modeled as an explicit work list with a generation
// boundary: each pass takes ownership of the current queue and clears it
// before running anything, so effects scheduled during a pass land in the
// next pass. The stack therefore stays bounded no matter how effects
// cascade; only a genuinely non-convergent consumer loop keeps the drain
// alive, one pass at a time.
func flushPending(ctx *trackingContext) {
	if ctx.flushing || len(ctx.pending) == 0 {
		return
	}

	ctx.flushing = true
	defer func() { ctx.flushing = false }()

	var start time.Time
	h := currentHooks()
	if h != nil && h.FlushEnd != nil {
		start = time.Now()
	}
	if h != nil && h.FlushStart != nil {
		h.FlushStart(len(ctx.pending))
	}

	generations := 0
	ran := 0

	for len(ctx.pending) > 0 {
		pass := ctx.pending
		ctx.pending = nil
		generations++

		if Debug.LogFlushes {
			logger().Debug("flush pass", "generation", generations, "effects", len(pass))
		}

		next := 0
		func() {
			// If an effect panics mid-pass, the effects behind it still
			// carry a set pending flag. Re-queue them before the panic
			// propagates so the next flush runs them; otherwise later
			// batched writes would CAS-fail and be dropped silently.
			defer func() {
				if next < len(pass) {
					ctx.pending = append(ctx.pending, pass[next:]...)
				}
			}()

			for next < len(pass) {
				e := pass[next]
				next++
				e.flushRun()
				ran++
			}
		}()
	}

	if h != nil && h.FlushEnd != nil {
		h.FlushEnd(time.Since(start), generations, ran)
	}
}
