// Package options contains flags and options for initializing the CampusGPT server.
package options

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kart-io/campusgpt/internal/campus"
	"github.com/kart-io/campusgpt/pkg/infra/tracing"
	cacheopts "github.com/kart-io/campusgpt/pkg/options/cache"
	identityopts "github.com/kart-io/campusgpt/pkg/options/identity"
	jwtopts "github.com/kart-io/campusgpt/pkg/options/jwt"
	llmopts "github.com/kart-io/campusgpt/pkg/options/llm"
	logopts "github.com/kart-io/campusgpt/pkg/options/logger"
	mwopts "github.com/kart-io/campusgpt/pkg/options/middleware"
	mysqlopts "github.com/kart-io/campusgpt/pkg/options/mysql"
	postgresopts "github.com/kart-io/campusgpt/pkg/options/postgres"
	redisopts "github.com/kart-io/campusgpt/pkg/options/redis"
	httpopts "github.com/kart-io/campusgpt/pkg/options/server/http"
	sqliteopts "github.com/kart-io/campusgpt/pkg/options/sqlite"
	storeopts "github.com/kart-io/campusgpt/pkg/options/store"
)

// ChatOptions groups the assistant's generation settings under "chat".
type ChatOptions struct {
	LLM *llmopts.ProviderOptions `json:"llm" mapstructure:"llm"`
}

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// MiddlewareOptions contains the HTTP middleware configuration.
	MiddlewareOptions *mwopts.Options `json:"middleware" mapstructure:"middleware"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// StoreOptions selects the persistence backend.
	StoreOptions *storeopts.Options `json:"store" mapstructure:"store"`

	// RedisOptions is used by the redis store, the redis reply cache and
	// token revocation.
	RedisOptions *redisopts.Options `json:"redis" mapstructure:"redis"`

	MySQLOptions    *mysqlopts.Options    `json:"mysql" mapstructure:"mysql"`
	PostgresOptions *postgresopts.Options `json:"postgres" mapstructure:"postgres"`
	SQLiteOptions   *sqliteopts.Options   `json:"sqlite" mapstructure:"sqlite"`

	// JWTOptions contains session token configuration.
	JWTOptions *jwtopts.Options `json:"jwt" mapstructure:"jwt"`

	// Chat contains the generation provider configuration.
	Chat ChatOptions `json:"chat" mapstructure:"chat"`

	// CacheOptions contains reply cache configuration.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// IdentityOptions controls how login emails map to roles.
	IdentityOptions *identityopts.Options `json:"identity" mapstructure:"identity"`

	// TracingOptions contains OpenTelemetry configuration.
	TracingOptions *tracing.Options `json:"tracing" mapstructure:"tracing"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	tracingOpts := tracing.NewOptions()
	tracingOpts.ServiceName = campus.Name

	return &ServerOptions{
		HTTPOptions:       httpopts.NewOptions(),
		MiddlewareOptions: mwopts.NewOptions(),
		LogOptions:        logopts.NewOptions(),
		StoreOptions:      storeopts.NewOptions(),
		RedisOptions:      redisopts.NewOptions(),
		MySQLOptions:      mysqlopts.NewOptions(),
		PostgresOptions:   postgresopts.NewOptions(),
		SQLiteOptions:     sqliteopts.NewOptions(),
		JWTOptions:        jwtopts.NewOptions(),
		Chat:              ChatOptions{LLM: llmopts.NewProviderOptions()},
		CacheOptions:      cacheopts.NewOptions(),
		IdentityOptions:   identityopts.NewOptions(),
		TracingOptions:    tracingOpts,
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.MiddlewareOptions.AddFlags(fss.FlagSet("middleware"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.StoreOptions.AddFlags(fss.FlagSet("store"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.MySQLOptions.AddFlags(fss.FlagSet("mysql"))
	o.PostgresOptions.AddFlags(fss.FlagSet("postgres"))
	o.SQLiteOptions.AddFlags(fss.FlagSet("sqlite"))
	o.JWTOptions.AddFlags(fss.FlagSet("jwt"))
	o.Chat.LLM.AddFlags(fss.FlagSet("chat"), "chat")
	o.CacheOptions.AddFlags(fss.FlagSet("cache"))
	o.IdentityOptions.AddFlags(fss.FlagSet("identity"))
	o.TracingOptions.AddFlags(fss.FlagSet("tracing"))
	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := o.MiddlewareOptions.Complete(); err != nil {
		return fmt.Errorf("middleware: %w", err)
	}
	if err := o.LogOptions.Complete(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := o.StoreOptions.Complete(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := o.RedisOptions.Complete(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := o.MySQLOptions.Complete(); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	if err := o.PostgresOptions.Complete(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := o.SQLiteOptions.Complete(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := o.JWTOptions.Complete(); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	if err := o.Chat.LLM.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := o.CacheOptions.Complete(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := o.IdentityOptions.Complete(); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := o.TracingOptions.Complete(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
// Connection options are only checked for the backends in use.
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HTTPOptions.Validate()...)
	errs = append(errs, o.MiddlewareOptions.Validate()...)
	errs = append(errs, o.LogOptions.Validate()...)
	errs = append(errs, o.StoreOptions.Validate()...)
	errs = append(errs, o.JWTOptions.Validate()...)
	errs = append(errs, o.Chat.LLM.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)
	errs = append(errs, o.IdentityOptions.Validate()...)
	errs = append(errs, o.TracingOptions.Validate()...)

	switch o.StoreOptions.Driver {
	case storeopts.DriverSQLite:
		errs = append(errs, o.SQLiteOptions.Validate()...)
	case storeopts.DriverMySQL:
		errs = append(errs, o.MySQLOptions.Validate()...)
	case storeopts.DriverPostgres:
		errs = append(errs, o.PostgresOptions.Validate()...)
	}
	if o.StoreOptions.Driver == storeopts.DriverRedis ||
		(o.CacheOptions.Enabled && o.CacheOptions.Backend == "redis") {
		errs = append(errs, o.RedisOptions.Validate()...)
	}

	return utilerrors.NewAggregate(errs)
}

// Config builds a campus.Config based on ServerOptions.
func (o *ServerOptions) Config() (*campus.Config, error) {
	return &campus.Config{
		HTTPOptions:       o.HTTPOptions,
		MiddlewareOptions: o.MiddlewareOptions,
		LogOptions:        o.LogOptions,
		StoreOptions:      o.StoreOptions,
		RedisOptions:      o.RedisOptions,
		MySQLOptions:      o.MySQLOptions,
		PostgresOptions:   o.PostgresOptions,
		SQLiteOptions:     o.SQLiteOptions,
		JWTOptions:        o.JWTOptions,
		ChatOptions:       o.Chat.LLM,
		CacheOptions:      o.CacheOptions,
		IdentityOptions:   o.IdentityOptions,
		TracingOptions:    o.TracingOptions,
	}, nil
}
