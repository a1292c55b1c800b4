package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/kart-io/campusgpt/pkg/llm"
)

// Provider 为 llm.Provider 增加重试与熔断。
type Provider struct {
	provider llm.Provider
	retry    *RetryConfig
	cb       *CircuitBreaker
}

var _ llm.Provider = (*Provider)(nil)

// Wrap 包装供应商。retry 或 cb 为 nil 时使用默认值。
func Wrap(provider llm.Provider, retry *RetryConfig, cb *CircuitBreakerConfig) *Provider {
	if retry == nil {
		retry = DefaultRetryConfig()
	}
	return &Provider{
		provider: provider,
		retry:    retry,
		cb:       NewCircuitBreaker(cb),
	}
}

// Generate 带重试和熔断的生成调用。
func (p *Provider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	var resp *llm.GenerateResponse
	err := RetryWithBackoff(ctx, p.retry, func() error {
		return p.cb.Execute(ctx, func() error {
			var err error
			resp, err = p.provider.Generate(ctx, req)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Name 返回被包装供应商的名称。
func (p *Provider) Name() string {
	return p.provider.Name()
}

// CircuitBreaker 返回熔断器实例。
func (p *Provider) CircuitBreaker() *CircuitBreaker {
	return p.cb
}

// IsRetryableError 判断错误是否值得重试：网络错误、408、429 与 5xx。
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, llm.ErrMissingAPIKey) || errors.Is(err, ErrCircuitOpen) {
		return false
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode >= 500:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
