package middleware

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())
	assert.False(t, o.CORS.Enabled)
	assert.Equal(t, []string{"/healthz"}, o.Logger.SkipPaths)
}

func TestFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--middleware.cors.enabled",
		"--middleware.cors.allow-origins=https://campus.example",
		"--middleware.timeout.timeout=3m",
	}))
	assert.True(t, o.CORS.Enabled)
	assert.Equal(t, []string{"https://campus.example"}, o.CORS.AllowOrigins)
	assert.Equal(t, 3*time.Minute, o.Timeout.Timeout)
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	o.CORS.Enabled = true
	o.CORS.AllowOrigins = nil
	o.Timeout.Timeout = -time.Second
	assert.Len(t, o.Validate(), 2)
}
