// Package sqlite provides options for the embedded SQLite database.
package sqlite

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// Options SQLite 配置。
type Options struct {
	// Path 数据库文件路径，":memory:" 表示内存库。
	Path string `json:"path" mapstructure:"path"`
	// LogLevel GORM 日志级别。
	LogLevel int `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Path:     "campusgpt.db",
		LogLevel: 1,
	}
}

// DSN returns the DSN passed to the driver. Foreign keys are switched on.
func (o *Options) DSN() string {
	if o.Path == ":memory:" {
		return "file::memory:?cache=shared&_pragma=foreign_keys(1)"
	}
	return o.Path + "?_pragma=foreign_keys(1)"
}

// Complete is a no-op.
func (o *Options) Complete() error {
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	if o.Path == "" {
		return []error{fmt.Errorf("sqlite.path cannot be empty")}
	}
	return nil
}

// AddFlags adds flags for SQLite options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "sqlite."
	fs.StringVar(&o.Path, p+"path", o.Path, "SQLite database file, or :memory:.")
	fs.IntVar(&o.LogLevel, p+"log-level", o.LogLevel, "GORM log level (1 silent, 2 error, 3 warn, 4 info).")
}
