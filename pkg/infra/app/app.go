// Package app turns an options struct and a run function into a cobra
// command.
//
// Values resolve as flag > environment > config file > default. The
// environment prefix is the upper-cased app name, and "." and "-" in keys
// become "_", so http.addr is CAMPUSGPT_HTTP_ADDR. String values in the
// config file may reference ${VAR}.
//
//	app.NewApp(
//	    app.WithName("campusgpt"),
//	    app.WithOptions(opts),
//	    app.WithRunFunc(run),
//	).Run()
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/kart-io/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
)

// CliOptions is what an App loads configuration into.
type CliOptions interface {
	Flags() cliflag.NamedFlagSets
	Complete() error
	Validate() error
}

// RunFunc runs the service until ctx is cancelled by SIGINT or SIGTERM.
type RunFunc func(ctx context.Context) error

// App is a configured command line application.
type App struct {
	name      string
	short     string
	long      string
	options   CliOptions
	run       RunFunc
	noVersion bool
	noConfig  bool

	cmd   *cobra.Command
	viper *viper.Viper
}

// Option configures an App.
type Option func(*App)

func WithName(name string) Option { return func(a *App) { a.name = name } }
func WithShortDescription(s string) Option { return func(a *App) { a.short = s } }
func WithDescription(s string) Option { return func(a *App) { a.long = s } }
func WithOptions(opts CliOptions) Option { return func(a *App) { a.options = opts } }
func WithRunFunc(run RunFunc) Option { return func(a *App) { a.run = run } }

// WithNoVersion drops the --version flag.
func WithNoVersion() Option { return func(a *App) { a.noVersion = true } }

// WithNoConfig drops --config and skips config file lookup.
func WithNoConfig() Option { return func(a *App) { a.noConfig = true } }

// NewApp builds the command. The name defaults to the binary name.
func NewApp(opts ...Option) *App {
	a := &App{name: filepath.Base(os.Args[0]), viper: viper.New()}
	for _, o := range opts {
		o(a)
	}
	a.cmd = a.newCommand()
	return a
}

func (a *App) newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          a.name,
		Short:        a.short,
		Long:         a.long,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         a.execute,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	pfs := cmd.PersistentFlags()
	if !a.noConfig {
		pfs.StringP("config", "c", "", "Path to config file")
	}
	if !a.noVersion {
		version.AddFlags(pfs)
	}
	if a.options == nil {
		return cmd
	}

	// 按分组注册标志，帮助信息也按分组输出
	fss := a.options.Flags()
	for _, name := range fss.Order {
		cmd.Flags().AddFlagSet(fss.FlagSets[name])
	}
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		fmt.Fprintf(c.OutOrStderr(), "Usage:\n  %s\n", c.UseLine())
		cliflag.PrintSections(c.OutOrStderr(), fss, 0)
		return nil
	})
	return cmd
}

func (a *App) execute(cmd *cobra.Command, _ []string) error {
	if !a.noVersion {
		version.PrintAndExitIfRequested()
	}
	if err := a.load(cmd); err != nil {
		return err
	}
	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}
	if a.run == nil {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

// load merges the config file, the environment and the flags into options.
func (a *App) load(cmd *cobra.Command) error {
	v := a.viper
	if !a.noConfig {
		path, _ := cmd.Flags().GetString("config")
		if err := a.readConfigFile(path); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(a.name, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if a.options == nil {
		return nil
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if err := v.Unmarshal(a.options); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// readConfigFile reads path, or searches ./, ./configs, ~/.<name> and
// /etc/<name> for <name>.yaml when path is empty. A missing file found by
// search is not an error.
func (a *App) readConfigFile(path string) error {
	v := a.viper
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(a.name)
		v.SetConfigType("yaml")
		for _, dir := range []string{".", "./configs", filepath.Join(os.Getenv("HOME"), "."+a.name), "/etc/" + a.name} {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if errors.As(err, new(viper.ConfigFileNotFoundError)) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := v.MergeConfigMap(expandEnv(v.AllSettings()).(map[string]any)); err != nil {
		return fmt.Errorf("expand config file: %w", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv replaces ${VAR} in every string inside val, walking maps and
// lists. References to unset variables are left as written.
func expandEnv(val any) any {
	switch t := val.(type) {
	case string:
		return envRef.ReplaceAllStringFunc(t, func(ref string) string {
			if v, ok := os.LookupEnv(ref[2 : len(ref)-1]); ok {
				return v
			}
			return ref
		})
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = expandEnv(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = expandEnv(v)
		}
		return out
	}
	return val
}

// Run executes the command and exits 1 on error.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command exposes the cobra command, mainly for tests.
func (a *App) Command() *cobra.Command { return a.cmd }
