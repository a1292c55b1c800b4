package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campusgpt/pkg/llm"
)

type flakyProvider struct {
	errs  []error
	calls int
}

func (f *flakyProvider) Generate(context.Context, *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &llm.GenerateResponse{Text: "ok"}, nil
}

func (f *flakyProvider) Name() string { return "flaky" }

var unavailable = &llm.APIError{Provider: "flaky", StatusCode: http.StatusServiceUnavailable}

func TestDefaultCallsOnce(t *testing.T) {
	inner := &flakyProvider{errs: []error{unavailable}}
	p := Wrap(inner, nil, nil)

	_, err := p.Generate(context.Background(), &llm.GenerateRequest{})
	assert.ErrorIs(t, err, unavailable)
	assert.Equal(t, 1, inner.calls)
}

func TestRetriesTransientErrors(t *testing.T) {
	inner := &flakyProvider{errs: []error{unavailable, unavailable}}
	p := Wrap(inner, &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}, nil)

	resp, err := p.Generate(context.Background(), &llm.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 3, inner.calls)
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	bad := &llm.APIError{Provider: "flaky", StatusCode: http.StatusBadRequest}
	inner := &flakyProvider{errs: []error{bad}}
	p := Wrap(inner, &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}, nil)

	_, err := p.Generate(context.Background(), &llm.GenerateRequest{})
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, inner.calls)
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(&CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute})
	cb.now = func() time.Time { return now }

	ctx := context.Background()
	fail := func() error { return errors.New("boom") }
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestDisabledCircuitBreakerPassesThrough(t *testing.T) {
	cb := NewCircuitBreaker(nil)
	for i := 0; i < 10; i++ {
		_ = cb.Execute(context.Background(), func() error { return errors.New("boom") })
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(&CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second})
	cb.now = func() time.Time { return now }
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Second)
	_ = cb.Execute(ctx, func() error { return errors.New("still down") })
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), ErrCircuitOpen)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, &RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour}, func() error {
		calls++
		cancel()
		return unavailable
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(llm.ErrMissingAPIKey))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.True(t, IsRetryableError(fmt.Errorf("wrapped: %w", unavailable)))
	assert.True(t, IsRetryableError(&llm.APIError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, IsRetryableError(&llm.APIError{StatusCode: http.StatusUnauthorized}))
}
