// Package middleware provides options for the HTTP middleware chain.
package middleware

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// LoggerOptions defines access log options.
type LoggerOptions struct {
	SkipPaths []string `json:"skip-paths" mapstructure:"skip-paths"`
}

// RecoveryOptions defines panic recovery options.
type RecoveryOptions struct {
	// EnableStackTrace 在错误响应中附带调用栈，仅用于开发环境。
	EnableStackTrace bool `json:"enable-stack-trace" mapstructure:"enable-stack-trace"`
}

// CORSOptions defines CORS options.
type CORSOptions struct {
	Enabled          bool     `json:"enabled" mapstructure:"enabled"`
	AllowOrigins     []string `json:"allow-origins" mapstructure:"allow-origins"`
	AllowCredentials bool     `json:"allow-credentials" mapstructure:"allow-credentials"`
	MaxAge           int      `json:"max-age" mapstructure:"max-age"`
}

// TimeoutOptions bounds the request context. Zero disables it.
type TimeoutOptions struct {
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Options 中间件配置。
type Options struct {
	Logger   LoggerOptions   `json:"logger" mapstructure:"logger"`
	Recovery RecoveryOptions `json:"recovery" mapstructure:"recovery"`
	CORS     CORSOptions     `json:"cors" mapstructure:"cors"`
	Timeout  TimeoutOptions  `json:"timeout" mapstructure:"timeout"`
}

// NewOptions creates default middleware options.
func NewOptions() *Options {
	return &Options{
		Logger: LoggerOptions{SkipPaths: []string{"/healthz"}},
		CORS: CORSOptions{
			AllowOrigins: []string{"*"},
			MaxAge:       86400,
		},
	}
}

// AddFlags adds flags for middleware options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "middleware."
	fs.StringSliceVar(&o.Logger.SkipPaths, p+"logger.skip-paths", o.Logger.SkipPaths, "Paths excluded from access logs.")
	fs.BoolVar(&o.Recovery.EnableStackTrace, p+"recovery.enable-stack-trace", o.Recovery.EnableStackTrace, "Include the stack trace in panic responses.")
	fs.BoolVar(&o.CORS.Enabled, p+"cors.enabled", o.CORS.Enabled, "Answer CORS requests from browser clients.")
	fs.StringSliceVar(&o.CORS.AllowOrigins, p+"cors.allow-origins", o.CORS.AllowOrigins, "CORS allowed origins.")
	fs.BoolVar(&o.CORS.AllowCredentials, p+"cors.allow-credentials", o.CORS.AllowCredentials, "CORS allow credentials.")
	fs.IntVar(&o.CORS.MaxAge, p+"cors.max-age", o.CORS.MaxAge, "CORS preflight max age in seconds.")
	fs.DurationVar(&o.Timeout.Timeout, p+"timeout.timeout", o.Timeout.Timeout, "Request context timeout, 0 disables it.")
}

// Validate validates the middleware options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.CORS.Enabled && len(o.CORS.AllowOrigins) == 0 {
		errs = append(errs, fmt.Errorf("middleware.cors.allow-origins must not be empty when CORS is enabled"))
	}
	if o.CORS.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("middleware.cors.max-age must not be negative"))
	}
	if o.Timeout.Timeout < 0 {
		errs = append(errs, fmt.Errorf("middleware.timeout.timeout must not be negative"))
	}
	return errs
}

// Complete completes the middleware options.
func (o *Options) Complete() error {
	return nil
}
