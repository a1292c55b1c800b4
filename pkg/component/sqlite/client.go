// Package sqlite opens the embedded SQLite database through GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"

	"github.com/kart-io/campusgpt/pkg/component/storage"
	options "github.com/kart-io/campusgpt/pkg/options/sqlite"
)

// New opens the SQLite database and verifies it with ctx.
// SQLite allows one writer, so the pool is capped at a single connection.
func New(ctx context.Context, opts *options.Options) (*storage.GormClient, error) {
	if opts == nil {
		return nil, fmt.Errorf("sqlite options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid sqlite options: %w", errors.Join(errs...))
	}

	return storage.OpenGorm(ctx, "sqlite", sqlite.Open(opts.DSN()), storage.PoolConfig{
		MaxIdleConnections: 1,
		MaxOpenConnections: 1,
	}, opts.LogLevel)
}
