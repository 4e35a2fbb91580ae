package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the subset of an OpenTelemetry span used by application code.
type Span interface {
	End(options ...trace.SpanEndOption)
	SetAttributes(kv ...attribute.KeyValue)
	AddEvent(name string, options ...trace.EventOption)
	SetStatus(code codes.Code, description string)
	// NoticeError records err and marks the span failed.
	NoticeError(err error)
	SpanContext() trace.SpanContext
}

type span struct {
	trace.Span
}

func (s span) NoticeError(err error) {
	if err == nil {
		return
	}
	s.RecordError(err)
	s.SetStatus(codes.Error, err.Error())
}

// Tracer starts spans against the globally installed provider.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
}

type tracer struct {
	name string
}

// NewTracer returns a Tracer for the instrumentation scope name. The global
// provider is resolved on every span so providers installed later apply.
func NewTracer(name string) Tracer {
	return tracer{name: name}
}

func (t tracer) StartSpanFromContext(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span) {
	ctx, s := otel.Tracer(t.name).Start(ctx, name, opts...)
	return ctx, span{s}
}

func (t tracer) SpanFromContext(ctx context.Context) Span {
	return span{trace.SpanFromContext(ctx)}
}
