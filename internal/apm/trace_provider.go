// Package apm configures tracing and wraps OpenTelemetry spans.
package apm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/dynfee-amm/internal/logger"
)

type Provider string

const (
	ZipkinProvider   Provider = "zipkin"
	OTLPGRPCProvider Provider = "otlp-grpc"
	OTLPHTTPProvider Provider = "otlp-http"
	ConsoleProvider  Provider = "console"
	EmptyProvider    Provider = ""
)

// ParseProvider normalises a configured provider name.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ZipkinProvider, OTLPGRPCProvider, OTLPHTTPProvider, ConsoleProvider, EmptyProvider:
		return p, nil
	case "none", "empty":
		return EmptyProvider, nil
	default:
		return EmptyProvider, fmt.Errorf("unknown trace provider %q", name)
	}
}

type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

// NewEmptyTraceProvider leaves the global no-op tracer in place.
func NewEmptyTraceProvider() TraceProvider {
	return emptyTraceProvider{}
}

type TracerOptions struct {
	Provider    Provider
	ServiceName string
	Endpoint    string
	Headers     map[string]string
	Probability float64

	// Exporter overrides Provider, mostly in tests.
	Exporter sdktrace.SpanExporter
}

type TracerOption func(*TracerOptions)

func WithProvider(provider Provider) TracerOption {
	return func(o *TracerOptions) { o.Provider = provider }
}

func WithServiceName(name string) TracerOption {
	return func(o *TracerOptions) { o.ServiceName = name }
}

func WithEndpoint(endpoint string, headers map[string]string) TracerOption {
	return func(o *TracerOptions) {
		o.Endpoint = endpoint
		o.Headers = headers
	}
}

// WithProbability sets the TraceIDRatioBased sampling ratio.
func WithProbability(p float64) TracerOption {
	return func(o *TracerOptions) { o.Probability = p }
}

func WithExporter(exp sdktrace.SpanExporter) TracerOption {
	return func(o *TracerOptions) { o.Exporter = exp }
}

func newExporter(ctx context.Context, o TracerOptions) (sdktrace.SpanExporter, error) {
	switch o.Provider {
	case ZipkinProvider:
		return zipkin.New(o.Endpoint)
	case OTLPGRPCProvider:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(o.Endpoint),
			otlptracegrpc.WithHeaders(o.Headers),
		)
	case OTLPHTTPProvider:
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(o.Endpoint),
			otlptracehttp.WithHeaders(o.Headers),
		)
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, nil
	}
}

// NewTraceProvider builds a tracer provider and installs it globally. With
// no provider and no exporter it returns the empty provider.
func NewTraceProvider(ctx context.Context, log logger.LoggerInterface, options ...TracerOption) (TraceProvider, error) {
	opts := TracerOptions{Probability: 1}
	for _, opt := range options {
		opt(&opts)
	}

	exp := opts.Exporter
	if exp == nil {
		var err error
		exp, err = newExporter(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("%s exporter: %w", opts.Provider, err)
		}
	}
	if exp == nil {
		log.Debug(ctx, "tracing disabled")
		return NewEmptyTraceProvider(), nil
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(opts.ServiceName),
			attribute.String("otel.provider", string(opts.Provider)),
		))
	if err != nil {
		// Schema URL conflicts still yield a usable resource.
		log.Warn(ctx, "trace resource merge", "error", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.Probability))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	// Set global trace provider
	otel.SetTracerProvider(tp)

	// Set trace propagator
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(ctx, "tracing enabled", "provider", string(opts.Provider), "endpoint", opts.Endpoint)

	return &traceProvider{tp}, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	return o.tp.Shutdown(ctx)
}
