// Package authz defines the authorization interface used by the HTTP middleware.
//
// The authorization flow:
//  1. After authentication the caller's role (subject) is known.
//  2. The route declares a resource and action (e.g. "posts", "create").
//  3. Authorizer.Authorize decides whether the subject may perform it.
package authz

import (
	"context"
)

// Authorizer defines the authorization interface.
type Authorizer interface {
	// Authorize checks if the subject can perform the action on the resource.
	Authorize(ctx context.Context, subject, resource, action string) (bool, error)
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, subject, resource, action string) (bool, error)

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, subject, resource, action string) (bool, error) {
	return f(ctx, subject, resource, action)
}
