// Package session issues and revokes login sessions.
package session

import (
	"context"

	"github.com/kart-io/campusgpt/internal/campus/biz/identity"
	"github.com/kart-io/campusgpt/internal/model"
	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/security/auth"
)

// Claim keys carried in the token.
const (
	ClaimName = "name"
	ClaimRole = "role"
)

// TokenIssuer signs and revokes session tokens.
type TokenIssuer interface {
	Sign(ctx context.Context, subject string, opts ...auth.SignOption) (*auth.Token, error)
	Revoke(ctx context.Context, token string) error
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  *model.User `json:"user"`
	Token *auth.Token `json:"token"`
}

// Service handles login and logout.
type Service struct {
	verifier identity.Verifier
	tokens   TokenIssuer
}

// New creates a session service.
func New(verifier identity.Verifier, tokens TokenIssuer) *Service {
	return &Service{verifier: verifier, tokens: tokens}
}

// Login derives the user behind email and signs a token for it.
func (s *Service) Login(ctx context.Context, email string) (*LoginResult, error) {
	user, err := s.verifier.Verify(ctx, email)
	if err != nil {
		applogger.GetLogger(ctx).Warnw("login rejected", "email", email, "error", err.Error())
		return nil, err
	}

	token, err := s.tokens.Sign(ctx, user.Email, auth.WithExtra(map[string]any{
		ClaimName: user.Name,
		ClaimRole: user.Role.String(),
	}))
	if err != nil {
		return nil, err
	}

	applogger.GetLogger(ctx).Infow("user logged in", "email", user.Email, "role", user.Role.String())
	return &LoginResult{User: user, Token: token}, nil
}

// Logout revokes token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// UserFromClaims rebuilds the session user from verified claims.
func UserFromClaims(claims *auth.Claims) *model.User {
	if claims == nil {
		return nil
	}
	return &model.User{
		Email: claims.Subject,
		Name:  claims.GetExtraString(ClaimName),
		Role:  model.ParseRole(claims.GetExtraString(ClaimRole)),
	}
}

// UserFromContext returns the session user injected by the auth middleware.
func UserFromContext(ctx context.Context) *model.User {
	return UserFromClaims(auth.ClaimsFromContext(ctx))
}
