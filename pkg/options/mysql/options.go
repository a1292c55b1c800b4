// Package mysql configures the MySQL store backend.
package mysql

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
	"github.com/kart-io/campusgpt/pkg/options/sqldb"
)

var _ options.Group = (*Options)(nil)

// PasswordEnv is read by Complete when no password is configured.
const PasswordEnv = "MYSQL_PASSWORD"

type Options struct {
	sqldb.Options `mapstructure:",squash"`
}

func NewOptions() *Options {
	return &Options{Options: sqldb.Defaults(3306, "root")}
}

// DSN 返回 go-sql-driver 格式的连接串。
func (o *Options) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		o.Username, o.Password, o.Host, o.Port, o.Database)
}

func (o *Options) Complete() error {
	o.PasswordFromEnv(PasswordEnv)
	return nil
}

func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	return o.Check("mysql")
}

func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	o.Register(fs, options.Join(prefixes...)+"mysql.", "MySQL", PasswordEnv)
}
