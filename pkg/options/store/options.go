// Package store provides options selecting the persistence backend.
package store

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options 存储后端配置。
type Options struct {
	// Driver 后端类型: memory|redis|sqlite|mysql|postgres。
	Driver string `json:"driver" mapstructure:"driver"`
	// Seed 启动时写入默认数据。
	Seed bool `json:"seed" mapstructure:"seed"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Driver: DriverMemory,
		Seed:   true,
	}
}

// IsRelational reports whether the driver is backed by GORM.
func (o *Options) IsRelational() bool {
	switch o.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
		return true
	}
	return false
}

// Complete normalizes the driver name.
func (o *Options) Complete() error {
	o.Driver = strings.ToLower(strings.TrimSpace(o.Driver))
	if o.Driver == "" {
		o.Driver = DriverMemory
	}
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	switch strings.ToLower(o.Driver) {
	case DriverMemory, DriverRedis, DriverSQLite, DriverMySQL, DriverPostgres, "":
		return nil
	}
	return []error{fmt.Errorf("store.driver %q is not supported (memory|redis|sqlite|mysql|postgres)", o.Driver)}
}

// AddFlags adds flags for store options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "store."
	fs.StringVar(&o.Driver, p+"driver", o.Driver, "Persistence backend (memory|redis|sqlite|mysql|postgres).")
	fs.BoolVar(&o.Seed, p+"seed", o.Seed, "Seed default posts when collections are absent.")
}
