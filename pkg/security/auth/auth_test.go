package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectAuth(t *testing.T) {
	c := &Claims{Subject: "a@nits.ac.in", Extra: map[string]any{"role": "member", "n": 3}}
	ctx := InjectAuth(context.Background(), c, "tok")

	assert.Same(t, c, ClaimsFromContext(ctx))
	assert.Equal(t, "tok", TokenFromContext(ctx))
	assert.Equal(t, "member", c.GetExtraString("role"))
	assert.Equal(t, "3", c.GetExtraString("n"))
	assert.Equal(t, "", c.GetExtraString("missing"))

	assert.Nil(t, ClaimsFromContext(context.Background()))
	assert.Equal(t, "", (*Claims)(nil).GetExtraString("role"))
}

func TestWithExtraMerges(t *testing.T) {
	o := &SignOptions{}
	WithExtra(map[string]any{"a": 1})(o)
	WithExtra(map[string]any{"b": 2})(o)
	WithTokenID("jti")(o)

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, o.Extra)
	assert.Equal(t, "jti", o.TokenID)
}
