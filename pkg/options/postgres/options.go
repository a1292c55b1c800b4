// Package postgres configures the PostgreSQL store backend.
package postgres

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
	"github.com/kart-io/campusgpt/pkg/options/sqldb"
)

var _ options.Group = (*Options)(nil)

// PasswordEnv is read by Complete when no password is configured.
const PasswordEnv = "POSTGRES_PASSWORD"

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

type Options struct {
	sqldb.Options `mapstructure:",squash"`
	SSLMode       string `json:"ssl-mode" mapstructure:"ssl-mode"`
}

func NewOptions() *Options {
	return &Options{Options: sqldb.Defaults(5432, "postgres"), SSLMode: "disable"}
}

// DSN 返回 pgx 可识别的 key=value 连接串。
func (o *Options) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		o.Host, o.Port, o.Username, o.Password, o.Database, o.SSLMode)
}

func (o *Options) Complete() error {
	o.PasswordFromEnv(PasswordEnv)
	return nil
}

func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	errs := o.Check("postgres")
	if !slices.Contains(sslModes, o.SSLMode) {
		errs = append(errs, fmt.Errorf("postgres.ssl-mode %q is not supported", o.SSLMode))
	}
	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "postgres."
	o.Register(fs, p, "PostgreSQL", PasswordEnv)
	fs.StringVar(&o.SSLMode, p+"ssl-mode", o.SSLMode, "PostgreSQL sslmode ("+fmt.Sprint(sslModes)+").")
}
