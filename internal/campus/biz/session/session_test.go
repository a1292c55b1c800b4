package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campusgpt/internal/campus/biz/identity"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/pkg/security/auth"
	"github.com/kart-io/campusgpt/pkg/security/auth/jwt"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

func newService(t *testing.T) (*Service, *jwt.JWT) {
	t.Helper()
	j, err := jwt.New(
		jwt.WithKey("0123456789abcdef0123456789abcdef"),
		jwt.WithStore(jwt.NewMemoryStore()),
	)
	require.NoError(t, err)
	return New(identity.NewDomainVerifier(nil), j), j
}

func TestLoginRoundTrip(t *testing.T) {
	svc, j := newService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "admin@nits.ac.in")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
	assert.Equal(t, "Bearer", res.Token.TokenType)

	claims, err := j.Verify(ctx, res.Token.AccessToken)
	require.NoError(t, err)
	u := UserFromClaims(claims)
	assert.Equal(t, res.User, u)

	ctx = auth.InjectAuth(ctx, claims, res.Token.AccessToken)
	assert.Equal(t, res.User, UserFromContext(ctx))
}

func TestLoginInvalidEmail(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Login(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, errors.ErrCampusInvalidEmail)
}

func TestLogoutRevokes(t *testing.T) {
	svc, j := newService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "student@nits.ac.in")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, res.Token.AccessToken))

	_, err = j.Verify(ctx, res.Token.AccessToken)
	assert.ErrorIs(t, err, errors.ErrTokenRevoked)
}

func TestUserFromClaimsNil(t *testing.T) {
	assert.Nil(t, UserFromClaims(nil))
	assert.Nil(t, UserFromContext(context.Background()))

	u := UserFromClaims(&auth.Claims{Subject: "x@y.z", Extra: map[string]any{ClaimRole: "root"}})
	assert.Equal(t, model.RoleGuest, u.Role)
}
