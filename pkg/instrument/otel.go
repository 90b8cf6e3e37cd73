package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// attachTracing wraps the flush hooks so every flush emits a span. Flushes
// are synchronous and have no inbound context, so the span is recorded
// retroactively at FlushEnd with backdated start/end timestamps.
//
// The tracer comes from the global OpenTelemetry tracer provider; configure
// it in main() before enabling instrumentation:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func attachTracing(hooks *reactive.Hooks, tracerName string) {
	tracer := otel.Tracer(tracerName)

	prevStart := hooks.FlushStart
	prevEnd := hooks.FlushEnd

	var pendingAtStart int

	hooks.FlushStart = func(pending int) {
		pendingAtStart = pending
		if prevStart != nil {
			prevStart(pending)
		}
	}

	hooks.FlushEnd = func(d time.Duration, generations, ran int) {
		end := time.Now()
		_, span := tracer.Start(
			context.Background(),
			"reflow.flush",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithTimestamp(end.Add(-d)),
			trace.WithAttributes(
				attribute.Int("reflow.flush.pending", pendingAtStart),
				attribute.Int("reflow.flush.generations", generations),
				attribute.Int("reflow.flush.effects_run", ran),
			),
		)
		span.End(trace.WithTimestamp(end))

		if prevEnd != nil {
			prevEnd(d, generations, ran)
		}
	}
}
