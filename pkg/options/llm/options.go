// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*ProviderOptions)(nil)

// ProviderOptions 定义 LLM 供应商配置。
type ProviderOptions struct {
	// Provider 供应商名称（gemini, openai, deepseek, siliconflow）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址，为空时使用供应商默认值。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥，为空时由供应商在调用时读取环境变量。
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Timeout 单次请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 失败后的重试次数，0 表示不重试。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// WebSearch 是否启用联网检索。
	WebSearch bool `json:"web-search" mapstructure:"web-search"`

	// BreakerFailures 连续失败多少次后熔断，0 表示禁用。
	BreakerFailures int `json:"breaker-failures" mapstructure:"breaker-failures"`

	// BreakerTimeout 熔断持续时间。
	BreakerTimeout time.Duration `json:"breaker-timeout" mapstructure:"breaker-timeout"`
}

// NewProviderOptions 创建默认 LLM 供应商配置。
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:       "gemini",
		Model:          "gemini-2.5-flash",
		Timeout:        120 * time.Second,
		MaxRetries:     0,
		WebSearch:      true,
		BreakerTimeout: 30 * time.Second,
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":   o.BaseURL,
		"api_key":    o.APIKey,
		"chat_model": o.Model,
		"timeout":    o.Timeout,
	}
}

// AddFlags adds flags for LLM provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "llm."
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "LLM provider (gemini, openai, deepseek, siliconflow).")
	fs.StringVar(&o.BaseURL, p+"base-url", o.BaseURL, "LLM API base URL, empty for the provider default.")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "LLM API key. Falls back to GEMINI_API_KEY then API_KEY.")
	fs.StringVar(&o.Model, p+"model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "LLM request timeout.")
	fs.IntVar(&o.MaxRetries, p+"max-retries", o.MaxRetries, "LLM retries on transient failures.")
	fs.BoolVar(&o.WebSearch, p+"web-search", o.WebSearch, "Enable web search grounding.")
	fs.IntVar(&o.BreakerFailures, p+"breaker-failures", o.BreakerFailures, "Consecutive failures that open the circuit breaker, 0 disables it.")
	fs.DurationVar(&o.BreakerTimeout, p+"breaker-timeout", o.BreakerTimeout, "How long the circuit breaker stays open.")
}

// Validate validates the LLM provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("llm.provider cannot be empty"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model cannot be empty"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must be positive"))
	}
	if o.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("llm.max-retries must not be negative"))
	}
	if o.BreakerFailures < 0 {
		errs = append(errs, fmt.Errorf("llm.breaker-failures must not be negative"))
	}
	return errs
}

// Complete completes the LLM provider options.
func (o *ProviderOptions) Complete() error {
	return nil
}
