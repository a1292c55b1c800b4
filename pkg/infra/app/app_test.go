package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cliflag "k8s.io/component-base/cli/flag"
)

type testOptions struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"http"`
	Chat struct {
		APIKey string `mapstructure:"api-key"`
	} `mapstructure:"chat"`

	completed   bool
	validateErr error
}

func (o *testOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("http")
	fs.StringVar(&o.HTTP.Addr, "http.addr", ":8080", "addr")
	fs.StringVar(&o.HTTP.Mode, "http.mode", "release", "mode")
	addChat(fss.FlagSet("chat"), o)
	return fss
}

func addChat(fs *pflag.FlagSet, o *testOptions) {
	fs.StringVar(&o.Chat.APIKey, "chat.api-key", "", "key")
}

func (o *testOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *testOptions) Validate() error { return o.validateErr }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campusgpt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv("CAMPUSGPT_HTTP_MODE", "debug")
	t.Setenv("TEST_CHAT_KEY", "from-env-expansion")
	cfg := writeConfig(t, "http:\n  addr: \":9000\"\n  mode: test\nchat:\n  api-key: ${TEST_CHAT_KEY}\n")

	opts := &testOptions{}
	var ran bool
	a := NewApp(
		WithName("campusgpt"),
		WithNoVersion(),
		WithOptions(opts),
		WithRunFunc(func(ctx context.Context) error {
			ran = true
			assert.NotNil(t, ctx)
			return nil
		}),
	)

	cmd := a.Command()
	cmd.SetArgs([]string{"-c", cfg, "--http.addr", ":7000"})
	require.NoError(t, cmd.Execute())

	assert.True(t, ran)
	assert.True(t, opts.completed)
	assert.Equal(t, ":7000", opts.HTTP.Addr, "flag wins over file")
	assert.Equal(t, "debug", opts.HTTP.Mode, "env wins over file")
	assert.Equal(t, "from-env-expansion", opts.Chat.APIKey)
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	opts := &testOptions{}
	a := NewApp(WithName("campusgpt-missing"), WithNoVersion(), WithOptions(opts))
	cmd := a.Command()
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, ":8080", opts.HTTP.Addr)
}

func TestValidateErrorStopsRun(t *testing.T) {
	opts := &testOptions{validateErr: errors.New("bad")}
	a := NewApp(
		WithName("campusgpt-missing"),
		WithNoVersion(),
		WithNoConfig(),
		WithOptions(opts),
		WithRunFunc(func(context.Context) error {
			t.Fatal("run must not be called")
			return nil
		}),
	)
	cmd := a.Command()
	cmd.SetArgs(nil)
	cmd.SilenceErrors = true
	assert.EqualError(t, cmd.Execute(), "bad")
}

func TestExpandEnvKeepsUnset(t *testing.T) {
	t.Setenv("SET_VAR", "x")
	out := expandEnv(map[string]any{
		"a": "${SET_VAR}-${UNSET_VAR_FOR_TEST}",
		"b": map[string]any{"c": []any{"${SET_VAR}", 3}},
	}).(map[string]any)
	assert.Equal(t, "x-${UNSET_VAR_FOR_TEST}", out["a"])
	assert.Equal(t, []any{"x", 3}, out["b"].(map[string]any)["c"])
}
