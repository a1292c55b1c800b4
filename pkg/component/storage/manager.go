package storage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// Manager owns the backing clients of the service: it pings them for the
// health endpoint and closes them on shutdown.
//
//	mgr := storage.NewManager()
//	_ = mgr.Register("redis", rdb)
//	defer mgr.CloseAll()
type Manager struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewManager() *Manager {
	return &Manager{clients: map[string]Client{}}
}

// Register adds client under name. Names are unique.
func (m *Manager) Register(name string, client Client) error {
	if name == "" || client == nil {
		return errors.New("storage: name and client are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.clients[name]; dup {
		return fmt.Errorf("storage: client %q is already registered", name)
	}
	m.clients[name] = client
	return nil
}

// Names 按字典序返回已注册名称。
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.clients))
}

func (m *Manager) snapshot() map[string]Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.clients)
}

// HealthCheckAll pings every client in parallel. The result is sorted by name.
func (m *Manager) HealthCheckAll(ctx context.Context) []HealthStatus {
	clients := m.snapshot()
	results := make(chan HealthStatus, len(clients))
	for name, c := range clients {
		go func() {
			start := time.Now()
			st := HealthStatus{Name: name, Healthy: true}
			if err := c.Ping(ctx); err != nil {
				st.Healthy, st.Error = false, err.Error()
			}
			st.Latency = time.Since(start)
			results <- st
		}()
	}

	statuses := make([]HealthStatus, 0, len(clients))
	for range clients {
		statuses = append(statuses, <-results)
	}
	slices.SortFunc(statuses, func(a, b HealthStatus) int { return cmp.Compare(a.Name, b.Name) })
	return statuses
}

// Healthy is true when no status reports a failure.
func Healthy(statuses []HealthStatus) bool {
	return !slices.ContainsFunc(statuses, func(s HealthStatus) bool { return !s.Healthy })
}

// CloseAll closes and forgets every client, joining the close errors.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	clients := m.clients
	m.clients = map[string]Client{}
	m.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(clients)) {
		if err := clients[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
