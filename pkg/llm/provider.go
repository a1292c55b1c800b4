// Package llm defines the chat model abstraction and a registry of
// provider factories keyed by name.
package llm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message 对话中的一条消息。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Source is a cited web page. Providers drop citations lacking a title or URI.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// GenerateRequest carries the history oldest first; the last message is
// the turn being answered.
type GenerateRequest struct {
	Messages          []Message
	SystemInstruction string
	EnableWebSearch   bool
}

// GenerateResponse may have empty Text.
type GenerateResponse struct {
	Text    string
	Sources []Source
}

type Provider interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	Name() string
}

// ProviderFactory builds a Provider from a flat settings map.
type ProviderFactory func(config map[string]any) (Provider, error)

var ErrMissingAPIKey = errors.New("llm: api key is not configured")

// APIError is a non-200 answer from the upstream API.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

var factories sync.Map // name -> ProviderFactory

// RegisterProvider makes factory available under name, replacing any
// earlier registration.
func RegisterProvider(name string, factory ProviderFactory) {
	factories.Store(name, factory)
}

func NewProvider(name string, config map[string]any) (Provider, error) {
	f, ok := factories.Load(name)
	if !ok {
		return nil, fmt.Errorf("llm: unknown provider %q, registered: %v", name, Providers())
	}
	return f.(ProviderFactory)(config)
}

// Providers 返回已注册名称（排序）。
func Providers() []string {
	names := map[string]struct{}{}
	factories.Range(func(k, _ any) bool {
		names[k.(string)] = struct{}{}
		return true
	})
	return slices.Sorted(maps.Keys(names))
}

// ResolveAPIKey prefers configured, then the first non-empty variable in
// envs. Callers resolve per request so a key exported later still works.
func ResolveAPIKey(configured string, envs ...string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	for _, name := range envs {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", ErrMissingAPIKey
}
