package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edutech/naplan/internal/llm"
)

const tracerName = "github.com/edutech/naplan/internal/llm"

// TracingObserver opens a span for each model call attempt.
type TracingObserver struct {
	tracer trace.Tracer
}

// NewTracingObserver uses the global tracer provider. With tracing
// disabled that provider is a no-op.
func NewTracingObserver() *TracingObserver {
	return NewTracingObserverWith(otel.GetTracerProvider())
}

func NewTracingObserverWith(tp trace.TracerProvider) *TracingObserver {
	return &TracingObserver{tracer: tp.Tracer(tracerName)}
}

func (o *TracingObserver) Started(ctx context.Context, info llm.CallInfo) context.Context {
	ctx, _ = o.tracer.Start(ctx, "llm.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.call_id", info.ID),
			attribute.String("llm.provider", info.Provider),
			attribute.String("llm.model", info.Model),
			attribute.String("llm.purpose", info.Purpose),
			attribute.Int("llm.attempt", info.Attempt),
		),
	)
	return ctx
}

func (o *TracingObserver) Finished(ctx context.Context, _ llm.CallInfo, result llm.CallResult) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(attribute.Int64("llm.latency_ms", result.Latency.Milliseconds()))
	if resp := result.Response; resp != nil {
		span.SetAttributes(
			attribute.Int("llm.input_tokens", resp.Usage.InputTokens),
			attribute.Int("llm.output_tokens", resp.Usage.OutputTokens),
			attribute.String("llm.stop_reason", resp.StopReason),
		)
	}
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
