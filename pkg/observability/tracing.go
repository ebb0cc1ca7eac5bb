package observability

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/delta/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of delta spans.
const TracerName = "github.com/aretw0/delta"

// SpanCheck names the span wrapping one evaluation.
const SpanCheck = "delta.check"

// Tracer returns the delta tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartCheck opens the span one evaluation reports into. Pass the returned
// context to CheckContext so TracingHooks can find the span.
func StartCheck(ctx context.Context, tracer trace.Tracer, automaton string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanCheck,
		trace.WithAttributes(attribute.String("delta.automaton", automaton)),
	)
}

// TracingHooks records each step as an event on the span carried by the
// context and the verdict as span attributes. Without a recording span
// they do nothing.
func TracingHooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			span := trace.SpanFromContext(ctx)
			if !span.IsRecording() {
				return
			}
			span.AddEvent("step", trace.WithTimestamp(e.Timestamp), trace.WithAttributes(
				attribute.Int("delta.position", e.Step.Position),
				attribute.String("delta.symbol", e.Step.Symbol.String()),
				attribute.String("delta.from", e.Step.From.String()),
				attribute.String("delta.to", e.Step.To.String()),
				attribute.String("delta.outcome", string(e.Step.Outcome)),
			))
		},
		OnVerdict: func(ctx context.Context, e *domain.VerdictEvent) {
			span := trace.SpanFromContext(ctx)
			if !span.IsRecording() {
				return
			}
			span.SetAttributes(
				attribute.String("delta.verdict", e.Result.Verdict.String()),
				attribute.Int("delta.consumed", e.Result.Consumed),
				attribute.String("delta.final", e.Result.Final.String()),
				attribute.Int("delta.input_length", len(e.Input)),
			)
		},
	}
}

// NewStdoutTracerProvider builds a provider that pretty-prints finished
// spans to w and installs it globally. Call Shutdown to flush.
func NewStdoutTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
