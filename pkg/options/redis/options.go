// Package redis configures the Redis connection used by the redis store
// backend, the reply cache and token revocation.
package redis

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// PasswordEnv is read by Complete when no password is configured.
const PasswordEnv = "REDIS_PASSWORD"

type Options struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	Password string `json:"-" mapstructure:"password"`
	Database int    `json:"database" mapstructure:"database"`

	MaxRetries   int           `json:"max-retries" mapstructure:"max-retries"`
	PoolSize     int           `json:"pool-size" mapstructure:"pool-size"`
	MinIdleConns int           `json:"min-idle-conns" mapstructure:"min-idle-conns"`
	DialTimeout  time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
	ReadTimeout  time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

func NewOptions() *Options {
	return &Options{
		Host:         "127.0.0.1",
		Port:         6379,
		MaxRetries:   3,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr 返回 host:port。
func (o *Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// ClientOptions converts o for goredis.NewClient.
func (o *Options) ClientOptions() *goredis.Options {
	return &goredis.Options{
		Addr:         o.Addr(),
		Password:     o.Password,
		DB:           o.Database,
		MaxRetries:   o.MaxRetries,
		PoolSize:     o.PoolSize,
		MinIdleConns: o.MinIdleConns,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
	}
}

func (o *Options) Complete() error {
	if o.Password == "" {
		o.Password = os.Getenv(PasswordEnv)
	}
	return nil
}

func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Host == "" {
		errs = append(errs, fmt.Errorf("redis.host cannot be empty"))
	}
	if o.Port <= 0 || o.Port > 65535 {
		errs = append(errs, fmt.Errorf("redis.port must be in range 1-65535, got %d", o.Port))
	}
	if o.Database < 0 {
		errs = append(errs, fmt.Errorf("redis.database must not be negative"))
	}
	if o.PoolSize < 0 || o.MinIdleConns < 0 {
		errs = append(errs, fmt.Errorf("redis.pool-size and redis.min-idle-conns must not be negative"))
	}
	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "redis."
	fs.StringVar(&o.Host, p+"host", o.Host, "Redis host.")
	fs.IntVar(&o.Port, p+"port", o.Port, "Redis port.")
	fs.StringVar(&o.Password, p+"password", o.Password, "Redis password (prefer the "+PasswordEnv+" env var).")
	fs.IntVar(&o.Database, p+"database", o.Database, "Redis logical database.")
	fs.IntVar(&o.MaxRetries, p+"max-retries", o.MaxRetries, "Retries per command, -1 disables retries.")
	fs.IntVar(&o.PoolSize, p+"pool-size", o.PoolSize, "Connection pool size.")
	fs.IntVar(&o.MinIdleConns, p+"min-idle-conns", o.MinIdleConns, "Idle connections kept open.")
	fs.DurationVar(&o.DialTimeout, p+"dial-timeout", o.DialTimeout, "Timeout for establishing connections.")
	fs.DurationVar(&o.ReadTimeout, p+"read-timeout", o.ReadTimeout, "Timeout for socket reads.")
	fs.DurationVar(&o.WriteTimeout, p+"write-timeout", o.WriteTimeout, "Timeout for socket writes.")
}
