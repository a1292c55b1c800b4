// Package server starts a set of servers together and tears them down in
// reverse order.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kart-io/logger"
)

// Runnable is a server owned by a Manager. Start must return once the
// server is accepting work.
type Runnable interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Closer is a resource released after all servers stopped.
type Closer func(ctx context.Context) error

// Manager manages multiple servers with a unified lifecycle.
type Manager struct {
	shutdownTimeout time.Duration

	mu      sync.Mutex
	servers []Runnable
	closers []Closer
	started []Runnable
}

// NewManager creates a new server manager.
func NewManager(shutdownTimeout time.Duration) *Manager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	return &Manager{shutdownTimeout: shutdownTimeout}
}

// AddServer adds a server to the manager.
func (m *Manager) AddServer(server Runnable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers = append(m.servers, server)
}

// AddCloser registers a resource released on Stop, in reverse order.
func (m *Manager) AddCloser(c Closer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closers = append(m.closers, c)
}

// Start starts all servers. On failure the already started ones are stopped.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.started) > 0 {
		return fmt.Errorf("server manager already started")
	}
	for _, srv := range m.servers {
		if err := srv.Start(ctx); err != nil {
			for i := len(m.started) - 1; i >= 0; i-- {
				_ = m.started[i].Stop(ctx)
			}
			m.started = nil
			return fmt.Errorf("failed to start server %s: %w", srv.Name(), err)
		}
		m.started = append(m.started, srv)
		logger.Infow("server started", "name", srv.Name())
	}
	return nil
}

// Stop stops all started servers in reverse order, then runs the closers.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for i := len(m.started) - 1; i >= 0; i-- {
		srv := m.started[i]
		if err := srv.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop server %s: %w", srv.Name(), err))
			continue
		}
		logger.Infow("server stopped", "name", srv.Name())
	}
	m.started = nil

	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil

	return errors.Join(errs...)
}

// Run starts all servers, blocks until ctx is done, then shuts down
// within the configured timeout.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Server shutting down...")

	// 使用独立的 context，保证关闭时不受已取消的 ctx 影响
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.shutdownTimeout)
	defer cancel()

	return m.Stop(shutdownCtx)
}
