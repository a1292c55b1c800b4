package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"disabled ignores fields", func(o *Options) { o.ExporterType = "bogus" }, false},
		{"stdout", func(o *Options) { o.Enabled = true }, false},
		{"otlp without endpoint", func(o *Options) {
			o.Enabled = true
			o.ExporterType = ExporterOTLPHTTP
			o.Endpoint = ""
		}, true},
		{"bad exporter", func(o *Options) {
			o.Enabled = true
			o.ExporterType = "otlp_grpc"
		}, true},
		{"bad ratio", func(o *Options) {
			o.Enabled = true
			o.SamplerRatio = 2
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			assert.Equal(t, tt.wantErr, len(o.Validate()) > 0)
		})
	}
}

func TestDisabledProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.IsRecording())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNoopExporterProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	o := NewOptions()
	o.Enabled = true
	o.ExporterType = ExporterNoop
	p, err := NewProvider(context.Background(), o)
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	ctx, span := StartSpan(context.Background(), "test", "op")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestRecordError(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	ctx, span := StartSpan(context.Background(), "test", "op")
	RecordError(ctx, nil)
	RecordError(ctx, errors.New("boom"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
