// Package sqldb holds the connection settings shared by the networked SQL
// backends. Driver packages embed Options with mapstructure squash, so the
// keys sit directly under the driver section (mysql.host, postgres.host).
package sqldb

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Options 网络型关系数据库的通用连接参数。
type Options struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"-" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`

	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`
	// LogLevel GORM 日志级别: 1 silent, 2 error, 3 warn, 4 info
	LogLevel int `json:"log-level" mapstructure:"log-level"`
}

// Defaults returns a local connection to the campusgpt database.
func Defaults(port int, username string) Options {
	return Options{
		Host:                  "127.0.0.1",
		Port:                  port,
		Username:              username,
		Database:              "campusgpt",
		MaxIdleConnections:    10,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 10 * time.Minute,
		LogLevel:              1,
	}
}

// PasswordFromEnv fills an unset password from the named variable, keeping
// secrets out of config files and flags.
func (o *Options) PasswordFromEnv(name string) {
	if o.Password == "" {
		o.Password = os.Getenv(name)
	}
}

// Check reports invalid fields, naming them under section.
func (o *Options) Check(section string) []error {
	var errs []error
	if o.Host == "" {
		errs = append(errs, fmt.Errorf("%s.host cannot be empty", section))
	}
	if o.Port <= 0 || o.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s.port must be in range 1-65535, got %d", section, o.Port))
	}
	if o.Database == "" {
		errs = append(errs, fmt.Errorf("%s.database cannot be empty", section))
	}
	if o.MaxIdleConnections > o.MaxOpenConnections && o.MaxOpenConnections > 0 {
		errs = append(errs, fmt.Errorf("%s.max-idle-connections exceeds max-open-connections", section))
	}
	return errs
}

// Register adds the shared flags under p, with label naming the database
// in help text.
func (o *Options) Register(fs *pflag.FlagSet, p, label, passwordEnv string) {
	fs.StringVar(&o.Host, p+"host", o.Host, label+" host.")
	fs.IntVar(&o.Port, p+"port", o.Port, label+" port.")
	fs.StringVar(&o.Username, p+"username", o.Username, label+" username.")
	fs.StringVar(&o.Password, p+"password", o.Password, fmt.Sprintf("%s password (prefer the %s env var).", label, passwordEnv))
	fs.StringVar(&o.Database, p+"database", o.Database, label+" database.")
	fs.IntVar(&o.MaxIdleConnections, p+"max-idle-connections", o.MaxIdleConnections, label+" max idle connections.")
	fs.IntVar(&o.MaxOpenConnections, p+"max-open-connections", o.MaxOpenConnections, label+" max open connections.")
	fs.DurationVar(&o.MaxConnectionLifeTime, p+"max-connection-life-time", o.MaxConnectionLifeTime, label+" max connection life time.")
	fs.IntVar(&o.LogLevel, p+"log-level", o.LogLevel, "GORM log level (1 silent, 2 error, 3 warn, 4 info).")
}
