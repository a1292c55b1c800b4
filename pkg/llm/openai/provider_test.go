package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campusgpt/pkg/llm"
	"github.com/kart-io/campusgpt/pkg/utils/json"
)

func TestGenerateMapsRoles(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Building C"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(map[string]any{"base_url": srv.URL, "api_key": "sk-test", "chat_model": "deepseek-chat"})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "hi"},
			{Role: llm.RoleModel, Content: "hello"},
			{Role: llm.RoleUser, Content: "where is the library?"},
		},
		SystemInstruction: "sys",
		EnableWebSearch:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Building C", resp.Text)
	assert.Empty(t, resp.Sources)

	assert.Equal(t, "deepseek-chat", captured.Model)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
}

func TestGenerateStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewProviderWithConfig(&Config{BaseURL: srv.URL, APIKey: "k", ChatModel: "m"})
	_, err := p.Generate(context.Background(), &llm.GenerateRequest{Messages: []llm.Message{{Role: llm.RoleUser, Content: "x"}}})

	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
