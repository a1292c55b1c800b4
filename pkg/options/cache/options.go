// Package cache provides assistant reply cache options.
package cache

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// Options 回答缓存配置。
type Options struct {
	// Enabled 是否启用缓存。
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Backend 缓存后端: memory|redis。redis 复用 redis.* 连接配置。
	Backend string `json:"backend" mapstructure:"backend"`

	// TTL 缓存过期时间。
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix 缓存键前缀。
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// NewOptions 创建默认缓存配置。
func NewOptions() *Options {
	return &Options{
		Enabled:   false,
		Backend:   "memory",
		TTL:       10 * time.Minute,
		KeyPrefix: "campusgpt:reply:",
	}
}

// AddFlags adds flags for cache options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "cache."
	fs.BoolVar(&o.Enabled, p+"enabled", o.Enabled, "Cache assistant replies keyed by role and message.")
	fs.StringVar(&o.Backend, p+"backend", o.Backend, "Reply cache backend (memory|redis).")
	fs.DurationVar(&o.TTL, p+"ttl", o.TTL, "Reply cache TTL.")
	fs.StringVar(&o.KeyPrefix, p+"key-prefix", o.KeyPrefix, "Reply cache key prefix.")
}

// Validate validates the cache options.
func (o *Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if o.Backend != "memory" && o.Backend != "redis" {
		errs = append(errs, fmt.Errorf("cache.backend %q is invalid (memory|redis)", o.Backend))
	}
	if o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive"))
	}
	return errs
}

// Complete completes the cache options with defaults.
func (o *Options) Complete() error {
	if o.Backend == "" {
		o.Backend = "memory"
	}
	return nil
}
