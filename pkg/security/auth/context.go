package auth

import "context"

// authInfo 一次请求通过认证后的凭据。
type authInfo struct {
	claims *Claims
	token  string
}

type ctxAuth struct{}

// InjectAuth records the verified claims and the bearer token they came from.
func InjectAuth(ctx context.Context, claims *Claims, token string) context.Context {
	return context.WithValue(ctx, ctxAuth{}, authInfo{claims: claims, token: token})
}

// ClaimsFromContext returns the caller's claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	info, _ := ctx.Value(ctxAuth{}).(authInfo)
	return info.claims
}

// TokenFromContext returns the raw bearer token, or "".
func TokenFromContext(ctx context.Context) string {
	info, _ := ctx.Value(ctxAuth{}).(authInfo)
	return info.token
}
