// Package tracing sets up OpenTelemetry span export for the service and
// offers small helpers for opening spans in biz and store code.
package tracing

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// SamplerType selects which traces are kept.
type SamplerType string

// ExporterType selects where spans go. stdout is meant for local runs.
type ExporterType string

const (
	SamplerAlwaysOn    SamplerType = "always_on"
	SamplerAlwaysOff   SamplerType = "always_off"
	SamplerRatio       SamplerType = "ratio"
	SamplerParentBased SamplerType = "parent_based"

	ExporterOTLPHTTP ExporterType = "otlp_http"
	ExporterStdout   ExporterType = "stdout"
	ExporterNoop     ExporterType = "noop"
)

// Options configures span export. Everything but Enabled is ignored while
// tracing is off.
type Options struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"service-name" mapstructure:"service-name"`
	Environment string `json:"environment" mapstructure:"environment"`

	ExporterType ExporterType `json:"exporter-type" mapstructure:"exporter-type"`
	// Endpoint OTLP HTTP 地址 host:port
	Endpoint string            `json:"endpoint" mapstructure:"endpoint"`
	Insecure bool              `json:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `json:"headers" mapstructure:"headers"`

	SamplerType  SamplerType   `json:"sampler-type" mapstructure:"sampler-type"`
	SamplerRatio float64       `json:"sampler-ratio" mapstructure:"sampler-ratio"`
	BatchTimeout time.Duration `json:"batch-timeout" mapstructure:"batch-timeout"`
}

// NewOptions returns options with tracing off and stdout export ready.
func NewOptions() *Options {
	return &Options{
		Enabled:      false,
		ServiceName:  "campusgpt",
		Environment:  "development",
		ExporterType: ExporterStdout,
		Endpoint:     "localhost:4318",
		Insecure:     true,
		Headers:      make(map[string]string),
		SamplerType:  SamplerParentBased,
		SamplerRatio: 1.0,
		BatchTimeout: 5 * time.Second,
	}
}

// AddFlags registers the tracing.* flags.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "tracing."
	fs.BoolVar(&o.Enabled, p+"enabled", o.Enabled, "Enable OpenTelemetry tracing.")
	fs.StringVar(&o.ServiceName, p+"service-name", o.ServiceName, "Service name for tracing.")
	fs.StringVar(&o.Environment, p+"environment", o.Environment, "Deployment environment.")
	fs.StringVar((*string)(&o.ExporterType), p+"exporter-type", string(o.ExporterType), "Exporter type (otlp_http, stdout, noop).")
	fs.StringVar(&o.Endpoint, p+"endpoint", o.Endpoint, "OTLP HTTP exporter endpoint.")
	fs.BoolVar(&o.Insecure, p+"insecure", o.Insecure, "Disable TLS for OTLP connection.")
	fs.StringToStringVar(&o.Headers, p+"headers", o.Headers, "Extra headers sent with OTLP requests, e.g. authorization=Bearer x.")
	fs.StringVar((*string)(&o.SamplerType), p+"sampler-type", string(o.SamplerType), "Sampler type (always_on, always_off, ratio, parent_based).")
	fs.Float64Var(&o.SamplerRatio, p+"sampler-ratio", o.SamplerRatio, "Sampling ratio (0.0 to 1.0).")
	fs.DurationVar(&o.BatchTimeout, p+"batch-timeout", o.BatchTimeout, "Maximum time to wait before exporting a batch.")
}

func (o *Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if o.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing.service-name is required when tracing is enabled"))
	}
	switch o.ExporterType {
	case ExporterOTLPHTTP:
		if o.Endpoint == "" {
			errs = append(errs, fmt.Errorf("tracing.endpoint is required for exporter type %s", o.ExporterType))
		}
	case ExporterStdout, ExporterNoop:
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter-type %q is invalid", o.ExporterType))
	}
	switch o.SamplerType {
	case SamplerAlwaysOn, SamplerAlwaysOff, SamplerRatio, SamplerParentBased:
	default:
		errs = append(errs, fmt.Errorf("tracing.sampler-type %q is invalid", o.SamplerType))
	}
	if o.SamplerRatio < 0 || o.SamplerRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sampler-ratio must be between 0.0 and 1.0, got %f", o.SamplerRatio))
	}
	if o.BatchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("tracing.batch-timeout must be positive"))
	}
	return errs
}

// Complete 补全空的 Headers。
func (o *Options) Complete() error {
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}
	return nil
}
