// Package gemini talks to the Google Gemini generateContent API and can
// ground answers with Google Search.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kart-io/campusgpt/pkg/llm"
)

const ProviderName = "gemini"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// APIKeyEnvs are read in order at call time when no key is configured.
var APIKeyEnvs = []string{"GEMINI_API_KEY", "API_KEY"}

// Config is llm.Settings for Gemini.
type Config = llm.Settings

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		ChatModel: "gemini-2.5-flash",
		Timeout:   120 * time.Second,
	}
}

// Provider calls models/<model>:generateContent.
type Provider struct {
	cfg Config
	ep  llm.Endpoint
}

var _ llm.Provider = (*Provider)(nil)

// NewProvider is the llm factory; unset keys keep DefaultConfig values.
func NewProvider(config map[string]any) (llm.Provider, error) {
	cfg := DefaultConfig()
	cfg.Apply(config)
	return NewProviderWithConfig(cfg), nil
}

func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{cfg: *cfg, ep: llm.NewEndpoint(ProviderName, cfg.Timeout)}
}

func (p *Provider) Name() string { return ProviderName }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Tools             []tool    `json:"tools,omitempty"`
}

type webChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type candidate struct {
	Content struct {
		Parts []struct {
			Text    string `json:"text"`
			Thought bool   `json:"thought,omitempty"`
		} `json:"parts"`
	} `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []struct {
			Web *webChunk `json:"web,omitempty"`
		} `json:"groundingChunks"`
	} `json:"groundingMetadata,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

func (p *Provider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	key, err := llm.ResolveAPIKey(p.cfg.APIKey, APIKeyEnvs...)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(p.cfg.BaseURL, "/"), p.cfg.ChatModel)
	var resp generateResponse
	if err := p.ep.PostJSON(ctx, url, http.Header{"X-Goog-Api-Key": {key}}, buildRequest(req), &resp); err != nil {
		return nil, err
	}
	return parseResponse(&resp), nil
}

func buildRequest(req *llm.GenerateRequest) *generateRequest {
	out := &generateRequest{Contents: make([]content, len(req.Messages))}
	for i, m := range req.Messages {
		role := "user"
		if m.Role == llm.RoleModel {
			role = "model"
		}
		out.Contents[i] = content{Role: role, Parts: []part{{Text: m.Content}}}
	}
	if req.SystemInstruction != "" {
		out.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}
	if req.EnableWebSearch {
		out.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}
	return out
}

// parseResponse joins the visible parts of the first candidate and keeps
// only grounding chunks that have both a title and a URI.
func parseResponse(resp *generateResponse) *llm.GenerateResponse {
	out := &llm.GenerateResponse{}
	if len(resp.Candidates) == 0 {
		return out
	}
	c := resp.Candidates[0]

	var text strings.Builder
	for _, pt := range c.Content.Parts {
		if !pt.Thought {
			text.WriteString(pt.Text)
		}
	}
	out.Text = text.String()

	if c.GroundingMetadata == nil {
		return out
	}
	for _, ch := range c.GroundingMetadata.GroundingChunks {
		if w := ch.Web; w != nil && w.URI != "" && w.Title != "" {
			out.Sources = append(out.Sources, llm.Source{Title: w.Title, URI: w.URI})
		}
	}
	return out
}
