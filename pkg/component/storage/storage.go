// Package storage defines the common contract of storage clients and a
// manager that health checks and closes them together.
package storage

import (
	"context"
	"time"
)

// Client is the base interface that all storage clients must implement.
type Client interface {
	// Name returns the storage type name, e.g. "redis" or "sqlite".
	Name() string
	// Ping checks if the connection to the storage backend is alive.
	Ping(ctx context.Context) error
	// Close releases the connection. Safe to call more than once.
	Close() error
}

// HealthStatus represents the result of a health check operation.
type HealthStatus struct {
	Name    string        `json:"name"`
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}
