// Package postgres opens PostgreSQL connections through GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"

	pgdriver "gorm.io/driver/postgres"

	"github.com/kart-io/campusgpt/pkg/component/storage"
	options "github.com/kart-io/campusgpt/pkg/options/postgres"
)

// New opens a PostgreSQL connection pool and verifies it with ctx.
func New(ctx context.Context, opts *options.Options) (*storage.GormClient, error) {
	if opts == nil {
		return nil, fmt.Errorf("postgres options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid postgres options: %w", errors.Join(errs...))
	}

	return storage.OpenGorm(ctx, "postgres", pgdriver.Open(opts.DSN()), storage.PoolConfig{
		MaxIdleConnections:    opts.MaxIdleConnections,
		MaxOpenConnections:    opts.MaxOpenConnections,
		MaxConnectionLifeTime: opts.MaxConnectionLifeTime,
	}, opts.LogLevel)
}
