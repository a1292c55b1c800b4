package llm

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := NewProviderOptions()
	assert.Equal(t, "gemini", o.Provider)
	assert.Equal(t, "gemini-2.5-flash", o.Model)
	assert.Equal(t, 0, o.MaxRetries)
	assert.Empty(t, o.Validate())
}

func TestFlagsUsePrefix(t *testing.T) {
	o := NewProviderOptions()
	fs := pflag.NewFlagSet("chat", pflag.ContinueOnError)
	o.AddFlags(fs, "chat")

	require.NoError(t, fs.Parse([]string{"--chat.llm.model=gemini-2.0", "--chat.llm.timeout=5s"}))
	assert.Equal(t, "gemini-2.0", o.Model)
	assert.Equal(t, 5*time.Second, o.Timeout)
	assert.Equal(t, "gemini-2.0", o.ToConfigMap()["chat_model"])
}

func TestValidate(t *testing.T) {
	o := &ProviderOptions{MaxRetries: -1}
	assert.Len(t, o.Validate(), 4)
}
