// Package openai 提供兼容 OpenAI Chat Completions 接口的供应商实现。
// 适用于 OpenAI 以及 DeepSeek、SiliconFlow 等兼容服务，这些服务不提供
// 联网检索，EnableWebSearch 会被忽略，结果不含引用来源。
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kart-io/campusgpt/pkg/llm"
)

const ProviderName = "openai"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// APIKeyEnvs 未配置密钥时依次读取的环境变量。
var APIKeyEnvs = []string{"OPENAI_API_KEY", "API_KEY"}

// Config is llm.Settings for an OpenAI compatible endpoint.
type Config = llm.Settings

func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://api.openai.com/v1",
		ChatModel: "gpt-4o-mini",
		Timeout:   120 * time.Second,
	}
}

// Provider calls <base>/chat/completions.
type Provider struct {
	name string
	envs []string
	cfg  Config
	ep   llm.Endpoint
}

var _ llm.Provider = (*Provider)(nil)

// Compatible describes a service that speaks the Chat Completions API under
// its own name, defaults and key variables.
type Compatible struct {
	Name     string
	Defaults Config
	KeyEnvs  []string
}

// New builds a provider from the defaults overlaid with config.
func (c Compatible) New(config map[string]any) (llm.Provider, error) {
	cfg := c.Defaults
	cfg.Apply(config)
	return &Provider{name: c.Name, envs: c.KeyEnvs, cfg: cfg, ep: llm.NewEndpoint(c.Name, cfg.Timeout)}, nil
}

func NewProvider(config map[string]any) (llm.Provider, error) {
	return Compatible{Name: ProviderName, Defaults: *DefaultConfig(), KeyEnvs: APIKeyEnvs}.New(config)
}

func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{name: ProviderName, envs: APIKeyEnvs, cfg: *cfg, ep: llm.NewEndpoint(ProviderName, cfg.Timeout)}
}

func (p *Provider) Name() string { return p.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// roles 内部角色到 Chat Completions 角色的映射。
var roles = map[llm.Role]string{llm.RoleUser: "user", llm.RoleModel: "assistant"}

func (p *Provider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	key, err := llm.ResolveAPIKey(p.cfg.APIKey, p.envs...)
	if err != nil {
		return nil, err
	}

	body := chatRequest{Model: p.cfg.ChatModel, Messages: make([]chatMessage, 0, len(req.Messages)+1)}
	if req.SystemInstruction != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		role, ok := roles[m.Role]
		if !ok {
			role = "user"
		}
		body.Messages = append(body.Messages, chatMessage{Role: role, Content: m.Content})
	}

	var resp chatResponse
	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
	if err := p.ep.PostJSON(ctx, url, http.Header{"Authorization": {"Bearer " + key}}, body, &resp); err != nil {
		return nil, err
	}

	out := &llm.GenerateResponse{}
	if len(resp.Choices) > 0 {
		out.Text = resp.Choices[0].Message.Content
	}
	return out, nil
}
