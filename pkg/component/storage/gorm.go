package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PoolConfig configures the database/sql connection pool.
type PoolConfig struct {
	MaxIdleConnections    int
	MaxOpenConnections    int
	MaxConnectionLifeTime time.Duration
}

// GormClient wraps gorm.DB with the Client interface.
type GormClient struct {
	name string
	db   *gorm.DB
}

var _ Client = (*GormClient)(nil)

// OpenGorm opens a gorm connection, applies the pool settings and pings it.
// logLevel follows the option convention: 1 silent, 2 error, 3 warn, 4 info.
func OpenGorm(ctx context.Context, name string, dialector gorm.Dialector, pool PoolConfig, logLevel int) (*GormClient, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: sqlLogger{level: ParseGormLogLevel(logLevel)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if pool.MaxIdleConnections > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConnections)
	}
	if pool.MaxOpenConnections > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConnections)
	}
	if pool.MaxConnectionLifeTime > 0 {
		sqlDB.SetConnMaxLifetime(pool.MaxConnectionLifeTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", name, err)
	}
	return &GormClient{name: name, db: db}, nil
}

// ParseGormLogLevel maps the numeric option to a gorm log level.
func ParseGormLogLevel(level int) gormlogger.LogLevel {
	switch level {
	case 2:
		return gormlogger.Error
	case 3:
		return gormlogger.Warn
	case 4:
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}

// Name returns the storage type identifier.
func (c *GormClient) Name() string {
	return c.name
}

// Ping checks if the connection is alive.
func (c *GormClient) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (c *GormClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance.
func (c *GormClient) DB() *gorm.DB {
	return c.db
}
