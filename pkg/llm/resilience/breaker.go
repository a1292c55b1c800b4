// Package resilience 为生成调用提供重试与熔断。
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
)

// ErrCircuitOpen is returned without calling the provider while the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig 熔断器配置。MaxFailures 为 0 时不熔断。
type CircuitBreakerConfig struct {
	MaxFailures      int
	Timeout          time.Duration
	HalfOpenMaxCalls int
}

// DefaultCircuitBreakerConfig leaves the breaker disabled.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{Timeout: 30 * time.Second, HalfOpenMaxCalls: 1}
}

// State of a CircuitBreaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{StateClosed: "closed", StateOpen: "open", StateHalfOpen: "half-open"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// CircuitBreaker stops calling a failing provider. After MaxFailures
// consecutive failures it opens; once Timeout has passed it lets up to
// HalfOpenMaxCalls probes through, and one success closes it again while
// one failure reopens it.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probes   int
}

func NewCircuitBreaker(cfg *CircuitBreakerConfig) *CircuitBreaker {
	if cfg == nil {
		cfg = DefaultCircuitBreakerConfig()
	}
	cb := &CircuitBreaker{cfg: *cfg, now: time.Now}
	cb.cfg.HalfOpenMaxCalls = max(cb.cfg.HalfOpenMaxCalls, 1)
	return cb
}

// Execute runs fn unless the breaker rejects the call.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if cb == nil || cb.cfg.MaxFailures <= 0 {
		return fn()
	}
	if !cb.admit(ctx) {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(ctx, err)
	return err
}

func (cb *CircuitBreaker) admit(ctx context.Context) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			return false
		}
		cb.transition(ctx, StateHalfOpen)
		cb.probes = 0
	}
	if cb.state == StateHalfOpen {
		if cb.probes >= cb.cfg.HalfOpenMaxCalls {
			return false
		}
		cb.probes++
	}
	return true
}

func (cb *CircuitBreaker) record(ctx context.Context, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.transition(ctx, StateClosed)
		return
	}
	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.cfg.MaxFailures {
		cb.openedAt = cb.now()
		cb.transition(ctx, StateOpen)
	}
}

// transition 切换状态并记录日志，调用方持有锁。
func (cb *CircuitBreaker) transition(ctx context.Context, to State) {
	if cb.state == to {
		return
	}
	applogger.GetLogger(ctx).Warnw("llm circuit breaker state changed",
		"from", cb.state.String(), "to", to.String(), "failures", cb.failures)
	cb.state = to
}

// State reports the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
