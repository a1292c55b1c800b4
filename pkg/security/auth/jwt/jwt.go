// Package jwt issues and checks the HMAC signed bearer tokens handed out at
// login.
//
//	j, err := jwt.New(jwt.WithOptions(opts), jwt.WithStore(jwt.NewMemoryStore()))
//	token, err := j.Sign(ctx, "student@nits.ac.in", auth.WithExtra(map[string]any{"role": "member"}))
//	claims, err := j.Verify(ctx, token.AccessToken)
package jwt

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	jwtopts "github.com/kart-io/campusgpt/pkg/options/jwt"
	"github.com/kart-io/campusgpt/pkg/security/auth"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/id"
)

// JWT issues and verifies tokens. With a Store it also honours revocation.
type JWT struct {
	opts   *jwtopts.Options
	store  Store
	method jwt.SigningMethod
	now    func() time.Time
}

// Option configures a JWT.
type Option func(*JWT)

// payload 令牌载荷: 标准声明加上 extra 扩展字段。
type payload struct {
	jwt.RegisteredClaims
	Extra map[string]any `json:"extra,omitempty"`
}

// New applies opts over the default options, then completes and validates
// them.
func New(opts ...Option) (*JWT, error) {
	j := &JWT{opts: jwtopts.NewOptions(), now: time.Now}
	for _, o := range opts {
		o(j)
	}

	if err := j.opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete jwt options: %w", err)
	}
	if errs := j.opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid jwt options: %w", stderrors.Join(errs...))
	}
	if j.method = jwt.GetSigningMethod(j.opts.SigningMethod); j.method == nil {
		return nil, fmt.Errorf("unsupported signing method %q", j.opts.SigningMethod)
	}
	return j, nil
}

// WithOptions replaces the whole option set. nil is ignored.
func WithOptions(opts *jwtopts.Options) Option {
	return func(j *JWT) {
		if opts != nil {
			j.opts = opts
		}
	}
}

func WithKey(key string) Option { return func(j *JWT) { j.opts.Key = key } }

func WithExpired(d time.Duration) Option { return func(j *JWT) { j.opts.Expired = d } }

// WithStore enables Revoke and the revocation check in Verify.
func WithStore(store Store) Option { return func(j *JWT) { j.store = store } }

func WithClock(now func() time.Time) Option { return func(j *JWT) { j.now = now } }

// Sign issues a token for subject. Without auth.WithTokenID the token id is
// a fresh ULID.
func (j *JWT) Sign(_ context.Context, subject string, opts ...auth.SignOption) (*auth.Token, error) {
	so := &auth.SignOptions{}
	for _, o := range opts {
		o(so)
	}
	if so.TokenID == "" {
		so.TokenID = id.NewULID()
	}

	issued := j.now()
	expires := issued.Add(j.opts.Expired)
	claims := payload{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        so.TokenID,
			Subject:   subject,
			Issuer:    j.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Extra: so.Extra,
	}

	signed, err := jwt.NewWithClaims(j.method, claims).SignedString([]byte(j.opts.Key))
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err).WithMessage("sign token")
	}
	return &auth.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expires.Unix(),
		ExpiresIn:   int64(j.opts.Expired / time.Second),
	}, nil
}

// Verify checks the signature, the time window against the JWT clock and,
// with a Store, revocation.
func (j *JWT) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, errors.ErrUnauthorized.WithMessage("token is empty")
	}

	// 时间窗口用注入的时钟校验，解析阶段跳过
	p := jwt.NewParser(jwt.WithValidMethods([]string{j.method.Alg()}), jwt.WithoutClaimsValidation())
	var pl payload
	if _, err := p.ParseWithClaims(token, &pl, func(*jwt.Token) (any, error) {
		return []byte(j.opts.Key), nil
	}); err != nil {
		return nil, errors.ErrInvalidToken.WithCause(err)
	}

	now := j.now()
	switch {
	case !pl.VerifyExpiresAt(now, true):
		return nil, errors.ErrTokenExpired
	case !pl.VerifyNotBefore(now, false):
		return nil, errors.ErrInvalidToken.WithMessage("token is not valid yet")
	}

	if j.store != nil {
		revoked, err := j.store.IsRevoked(ctx, pl.ID)
		if err != nil {
			return nil, errors.ErrInternal.WithCause(err).WithMessage("check token revocation")
		}
		if revoked {
			return nil, errors.ErrTokenRevoked
		}
	}
	return pl.claims(), nil
}

func (pl *payload) claims() *auth.Claims {
	c := &auth.Claims{Subject: pl.Subject, Issuer: pl.Issuer, ID: pl.ID, Extra: pl.Extra}
	if pl.IssuedAt != nil {
		c.IssuedAt = pl.IssuedAt.Unix()
	}
	if pl.ExpiresAt != nil {
		c.ExpiresAt = pl.ExpiresAt.Unix()
	}
	return c
}

// Revoke blacklists a valid token until its expiry. Without a Store it is
// a no-op.
func (j *JWT) Revoke(ctx context.Context, token string) error {
	if j.store == nil {
		return nil
	}
	c, err := j.Verify(ctx, token)
	if err != nil {
		return err
	}
	if ttl := time.Unix(c.ExpiresAt, 0).Sub(j.now()); ttl > 0 {
		return j.store.Revoke(ctx, c.ID, ttl)
	}
	return nil
}
