// Package logger carries request scoped log fields through context.Context.
//
// Middleware stores the request id and the caller, biz code logs through
// GetLogger(ctx) so every line of a request can be correlated:
//
//	ctx = logger.WithRequestID(ctx, id)
//	logger.GetLogger(ctx).Infow("post created", "id", p.ID)
package logger

import (
	"context"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"go.opentelemetry.io/otel/trace"
)

// Field names shared by every context logger.
const (
	FieldRequestID = "request_id"
	FieldUser      = "user"
	FieldRole      = "role"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
)

type fieldsKey struct{}

// field 保持插入顺序，日志输出稳定。
type field struct {
	key   string
	value any
}

func getFields(ctx context.Context) []field {
	if fs, ok := ctx.Value(fieldsKey{}).([]field); ok {
		return fs
	}
	return nil
}

// withField returns a context whose field list has key set to value.
// The parent's list is never modified.
func withField(ctx context.Context, key string, value any) context.Context {
	parent := getFields(ctx)
	fs := make([]field, 0, len(parent)+1)
	replaced := false
	for _, f := range parent {
		if f.key == key {
			f.value = value
			replaced = true
		}
		fs = append(fs, f)
	}
	if !replaced {
		fs = append(fs, field{key: key, value: value})
	}
	return context.WithValue(ctx, fieldsKey{}, fs)
}

// WithRequestID adds the request id to the log fields.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return withField(ctx, FieldRequestID, requestID)
}

// WithUser adds the authenticated caller to the log fields.
func WithUser(ctx context.Context, email, role string) context.Context {
	if email == "" {
		return ctx
	}
	ctx = withField(ctx, FieldUser, email)
	if role != "" {
		ctx = withField(ctx, FieldRole, role)
	}
	return ctx
}

// WithFields adds arbitrary key/value pairs. A trailing key without a
// value is ignored.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok || key == "" {
			continue
		}
		ctx = withField(ctx, key, keysAndValues[i+1])
	}
	return ctx
}

// Fields returns the context fields as a key/value slice, followed by the
// trace and span ids of the active span when there is one.
func Fields(ctx context.Context) []any {
	fs := getFields(ctx)
	out := make([]any, 0, len(fs)*2+4)
	for _, f := range fs {
		out = append(out, f.key, f.value)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		out = append(out, FieldTraceID, sc.TraceID().String(), FieldSpanID, sc.SpanID().String())
	}
	return out
}

// GetLogger returns the global logger enriched with the context fields.
func GetLogger(ctx context.Context) core.Logger {
	base := logger.Global()
	if ctx == nil {
		return base
	}
	fields := Fields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
