// Package middleware holds the gin middleware chain of the HTTP server.
package middleware

import "context"

// HeaderXRequestID carries the request id in both directions.
const HeaderXRequestID = "X-Request-ID"

type ctxRequestID struct{}

// WithRequestID returns ctx tagged with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID{}, id)
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID{}).(string)
	return id
}
