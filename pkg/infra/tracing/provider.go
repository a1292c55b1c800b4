package tracing

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider owns the process wide tracer provider. When tracing is disabled
// it holds nothing and every method is a no-op.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider completes and validates opts, then installs an SDK tracer
// provider and the W3C propagators as the otel globals. nil opts means the
// defaults, which leave tracing off.
func NewProvider(ctx context.Context, opts *Options) (*Provider, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete tracing options: %w", err)
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid tracing options: %w", stderrors.Join(errs...))
	}
	if !opts.Enabled {
		return &Provider{}, nil
	}

	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create %s exporter: %w", opts.ExporterType, err)
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", opts.Environment),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		_ = exporter.Shutdown(ctx)
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(opts)),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(opts.BatchTimeout)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return &Provider{tp: tp}, nil
}

// Enabled reports whether spans are being exported.
func (p *Provider) Enabled() bool { return p.tp != nil }

func (p *Provider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if p.tp == nil {
		return noop.NewTracerProvider().Tracer(name, opts...)
	}
	return p.tp.Tracer(name, opts...)
}

// Shutdown flushes buffered spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

func newExporter(ctx context.Context, opts *Options) (sdktrace.SpanExporter, error) {
	switch opts.ExporterType {
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	case ExporterNoop:
		return discard{}, nil
	case ExporterOTLPHTTP:
		o := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint), otlptracehttp.WithHeaders(opts.Headers)}
		if opts.Insecure {
			o = append(o, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, o...)
	}
	return nil, fmt.Errorf("unsupported exporter %q", opts.ExporterType)
}

// discard 丢弃所有 span，用于只需要 trace id 的场景。
type discard struct{}

func (discard) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (discard) Shutdown(context.Context) error                             { return nil }

func newSampler(opts *Options) sdktrace.Sampler {
	ratio := sdktrace.TraceIDRatioBased(opts.SamplerRatio)
	switch opts.SamplerType {
	case SamplerAlwaysOn:
		return sdktrace.AlwaysSample()
	case SamplerAlwaysOff:
		return sdktrace.NeverSample()
	case SamplerRatio:
		return ratio
	}
	return sdktrace.ParentBased(ratio)
}
