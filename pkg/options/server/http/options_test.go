package http

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	assert.Empty(t, NewOptions().Validate())
}

func TestValidateRejectsBadMode(t *testing.T) {
	o := NewOptions()
	o.ApplyOptions(WithMode("verbose"), WithAddr(""))
	assert.Len(t, o.Validate(), 2)
}

func TestAddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--http.addr=:9999", "--http.mode=debug"}))
	assert.Equal(t, ":9999", o.Addr)
	assert.Equal(t, "debug", o.Mode)
}
