package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/campusgpt/pkg/infra/tracing"
)

// Option configures a store implementation.
type Option func(*config)

type config struct {
	now func() time.Time
}

func newConfig(opts []Option) *config {
	c := &config{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithClock overrides the time source used for seed timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// startSpan opens a span for one store operation. The returned func ends it
// and records *errp when it is non-nil.
func startSpan(ctx context.Context, backend, op string) (context.Context, func(errp *error)) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("store.backend", backend)),
	)
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			tracing.RecordError(ctx, *errp)
		}
		span.End()
	}
}
