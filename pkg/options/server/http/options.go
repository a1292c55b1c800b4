// Package http configures the gin HTTP listener.
package http

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

var modes = []string{"debug", "release", "test"}

const defaultShutdown = 15 * time.Second

// Options is the listener configuration. WriteTimeout covers a full chat
// round trip, so it has to stay above the LLM timeout.
type Options struct {
	Addr string `json:"addr" mapstructure:"addr"`
	Mode string `json:"mode" mapstructure:"mode"`

	ReadTimeout     time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
	IdleTimeout     time.Duration `json:"idle-timeout" mapstructure:"idle-timeout"`
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

type Option func(*Options)

func WithAddr(addr string) Option { return func(o *Options) { o.Addr = addr } }
func WithMode(mode string) Option { return func(o *Options) { o.Mode = mode } }

func (o *Options) ApplyOptions(opts ...Option) {
	for _, apply := range opts {
		apply(o)
	}
}

func NewOptions() *Options {
	return &Options{
		Addr:            ":8080",
		Mode:            "release",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    150 * time.Second,
		IdleTimeout:     time.Minute,
		ShutdownTimeout: defaultShutdown,
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "http."
	fs.StringVar(&o.Addr, p+"addr", o.Addr, "Listen address of the HTTP API.")
	fs.StringVar(&o.Mode, p+"mode", o.Mode, "Gin mode (debug|release|test).")
	fs.DurationVar(&o.ReadTimeout, p+"read-timeout", o.ReadTimeout, "Maximum time to read a request.")
	fs.DurationVar(&o.WriteTimeout, p+"write-timeout", o.WriteTimeout, "Maximum time to write a response.")
	fs.DurationVar(&o.IdleTimeout, p+"idle-timeout", o.IdleTimeout, "Keep-alive idle timeout.")
	fs.DurationVar(&o.ShutdownTimeout, p+"shutdown-timeout", o.ShutdownTimeout, "Grace period for in-flight requests on shutdown.")
}

func (o *Options) Complete() error {
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = defaultShutdown
	}
	return nil
}

func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr cannot be empty"))
	}
	if !slices.Contains(modes, o.Mode) {
		errs = append(errs, fmt.Errorf("http.mode %q is invalid, want one of %v", o.Mode, modes))
	}
	if o.ReadTimeout <= 0 || o.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.read-timeout and http.write-timeout must be positive"))
	}
	return errs
}
