package store

import (
	"fmt"

	"gorm.io/gorm"

	storeopts "github.com/kart-io/campusgpt/pkg/options/store"
	"github.com/kart-io/campusgpt/pkg/storage/kv"
)

// Backends holds the opened storage clients a store may be built on.
type Backends struct {
	KV kv.Storage
	DB *gorm.DB
}

// New builds the store for driver. Relational drivers are migrated first.
func New(driver string, b Backends, opts ...Option) (IStore, error) {
	switch driver {
	case storeopts.DriverMemory, storeopts.DriverRedis:
		if b.KV == nil {
			return nil, fmt.Errorf("store driver %q needs a key/value backend", driver)
		}
		return NewKV(b.KV, opts...), nil
	case storeopts.DriverSQLite, storeopts.DriverMySQL, storeopts.DriverPostgres:
		if b.DB == nil {
			return nil, fmt.Errorf("store driver %q needs a database", driver)
		}
		if err := AutoMigrate(b.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return NewGorm(b.DB, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}
