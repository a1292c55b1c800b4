package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestFieldsKeepOrderAndReplace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUser(ctx, "student@nits.ac.in", "member")
	ctx = WithRequestID(ctx, "req-2")

	assert.Equal(t, []any{
		FieldRequestID, "req-2",
		FieldUser, "student@nits.ac.in",
		FieldRole, "member",
	}, Fields(ctx))
}

func TestParentContextUnchanged(t *testing.T) {
	parent := WithRequestID(context.Background(), "req-1")
	_ = WithFields(parent, "ticket", "t1")

	assert.Equal(t, []any{FieldRequestID, "req-1"}, Fields(parent))
}

func TestEmptyValuesIgnored(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	ctx = WithUser(ctx, "", "guest")
	ctx = WithFields(ctx, "dangling")
	ctx = WithFields(ctx, 42, "not a key")

	assert.Empty(t, Fields(ctx))
}

func TestFieldsIncludeSpan(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1},
		SpanID:  trace.SpanID{2},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	fields := Fields(ctx)
	assert.Equal(t, []any{
		FieldTraceID, sc.TraceID().String(),
		FieldSpanID, sc.SpanID().String(),
	}, fields)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
	//nolint:staticcheck // nil context falls back to the global logger
	assert.NotNil(t, GetLogger(nil))
	assert.NotNil(t, GetLogger(WithRequestID(context.Background(), "req")))
}
