// Package middleware provides gin authentication and authorization middleware.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/security/auth"
	"github.com/kart-io/campusgpt/pkg/security/authz"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/response"
)

// ClaimsKey is the gin context key holding *auth.Claims.
const ClaimsKey = "auth.claims"

// Verifier verifies raw tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// ErrorHandler writes an error and aborts the chain.
type ErrorHandler func(c *gin.Context, err error)

type config struct {
	onError ErrorHandler
	subject func(*auth.Claims) string
}

// Option configures the middleware.
type Option func(*config)

// WithErrorHandler overrides how failures are written.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.onError = h
	}
}

// WithSubject overrides how the authorization subject is derived from claims.
// The default is the "role" extra claim.
func WithSubject(fn func(*auth.Claims) string) Option {
	return func(c *config) {
		c.subject = fn
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		onError: defaultErrorHandler,
		subject: func(cl *auth.Claims) string { return cl.GetExtraString("role") },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultErrorHandler(c *gin.Context, err error) {
	resp := response.Err(errors.FromError(err))
	c.AbortWithStatusJSON(resp.HTTPStatus(), resp)
}

// Authn verifies the Bearer token and stores the claims in both the gin
// context and the request context.
func Authn(v Verifier, opts ...Option) gin.HandlerFunc {
	cfg := newConfig(opts)
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			cfg.onError(c, errors.ErrUnauthorized.WithMessage("missing bearer token"))
			return
		}

		claims, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debugw("token verification failed", "path", c.Request.URL.Path, "error", err.Error())
			cfg.onError(c, err)
			return
		}

		c.Set(ClaimsKey, claims)
		ctx := auth.InjectAuth(c.Request.Context(), claims, token)
		c.Request = c.Request.WithContext(applogger.WithUser(ctx, claims.Subject, cfg.subject(claims)))
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authn, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// Authorizer provides middleware for authorization.
type Authorizer struct {
	authorizer authz.Authorizer
	cfg        *config
}

// NewAuthorizer creates a new Authorizer.
func NewAuthorizer(a authz.Authorizer, opts ...Option) *Authorizer {
	return &Authorizer{authorizer: a, cfg: newConfig(opts)}
}

// Require allows the request only when the caller may perform action on resource.
// It must run after Authn.
func (a *Authorizer) Require(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			a.cfg.onError(c, errors.ErrUnauthorized)
			return
		}
		sub := a.cfg.subject(claims)

		allowed, err := a.authorizer.Authorize(c.Request.Context(), sub, resource, action)
		if err != nil {
			logAuthz(c, "authorization error", sub, resource, action, "error", err.Error())
			a.cfg.onError(c, errors.ErrInternal.WithCause(err))
			return
		}
		if !allowed {
			logAuthz(c, "authorization denied", sub, resource, action)
			a.cfg.onError(c, errors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// logAuthz writes an audit entry.
func logAuthz(c *gin.Context, msg, subject, resource, action string, extra ...any) {
	fields := []any{
		"subject", subject,
		"resource", resource,
		"action", action,
		"remote_addr", c.ClientIP(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	}
	logger.Warnw(msg, append(fields, extra...)...)
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
