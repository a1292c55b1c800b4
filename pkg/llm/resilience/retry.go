package resilience

import (
	"context"
	"fmt"
	"time"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
)

// RetryConfig controls exponential backoff. MaxAttempts counts the first
// call and values below 1 mean 1. Retryable defaults to IsRetryableError.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Retryable    func(error) bool
}

// DefaultRetryConfig 默认只调用一次，不重试。
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  1,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
	}
}

// RetryWithBackoff calls fn until it succeeds, returns a non retryable
// error, runs out of attempts or ctx is done.
func RetryWithBackoff(ctx context.Context, cfg *RetryConfig, fn func() error) error {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	attempts := max(cfg.MaxAttempts, 1)
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = IsRetryableError
	}

	var err error
	delay := cfg.InitialDelay
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts || !retryable(err) {
			break
		}

		applogger.GetLogger(ctx).Debugw("retrying llm call", "attempt", attempt, "delay", delay, "error", err)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = nextDelay(delay, cfg)
	}

	if attempts > 1 {
		return fmt.Errorf("after %d attempts: %w", attempts, err)
	}
	return err
}

func nextDelay(d time.Duration, cfg *RetryConfig) time.Duration {
	if cfg.Multiplier > 0 {
		d = time.Duration(float64(d) * cfg.Multiplier)
	}
	if cfg.MaxDelay > 0 && d > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return d
}
