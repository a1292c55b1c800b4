// Package mysql opens MySQL connections through GORM.
package mysql

import (
	"context"
	"errors"
	"fmt"

	mysqldriver "gorm.io/driver/mysql"

	"github.com/kart-io/campusgpt/pkg/component/storage"
	options "github.com/kart-io/campusgpt/pkg/options/mysql"
)

// New opens a MySQL connection pool and verifies it with ctx.
func New(ctx context.Context, opts *options.Options) (*storage.GormClient, error) {
	if opts == nil {
		return nil, fmt.Errorf("mysql options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid mysql options: %w", errors.Join(errs...))
	}

	return storage.OpenGorm(ctx, "mysql", mysqldriver.Open(opts.DSN()), storage.PoolConfig{
		MaxIdleConnections:    opts.MaxIdleConnections,
		MaxOpenConnections:    opts.MaxOpenConnections,
		MaxConnectionLifeTime: opts.MaxConnectionLifeTime,
	}, opts.LogLevel)
}
