package jwt

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteGeneratesKey(t *testing.T) {
	t.Setenv(KeyEnv, "")
	o := NewOptions()
	require.NoError(t, o.Complete())
	assert.True(t, o.KeyGenerated())
	assert.Len(t, o.Key, 2*minKeyLen)
	assert.Empty(t, o.Validate())
}

func TestCompleteReadsEnv(t *testing.T) {
	t.Setenv(KeyEnv, "0123456789abcdef0123456789abcdef")
	o := NewOptions()
	require.NoError(t, o.Complete())
	assert.False(t, o.KeyGenerated())
	assert.Equal(t, "0123456789abcdef0123456789abcdef", o.Key)
}

func TestValidate(t *testing.T) {
	o := &Options{Key: "short", SigningMethod: "RS256", Expired: -time.Second}
	assert.Len(t, o.Validate(), 3)
}

func TestAddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--jwt.expired=1h", "--jwt.signing-method=HS512"}))
	assert.Equal(t, time.Hour, o.Expired)
	assert.Equal(t, "HS512", o.SigningMethod)
}
