package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProvider struct{}

func (echoProvider) Generate(_ context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return &GenerateResponse{Text: req.Messages[len(req.Messages)-1].Content}, nil
}

func (echoProvider) Name() string { return "echo" }

func TestRegistry(t *testing.T) {
	RegisterProvider("echo-test", func(map[string]any) (Provider, error) { return echoProvider{}, nil })

	p, err := NewProvider("echo-test", nil)
	require.NoError(t, err)
	resp, err := p.Generate(context.Background(), &GenerateRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text)
	assert.Contains(t, Providers(), "echo-test")

	_, err = NewProvider("missing", nil)
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("LLM_TEST_PRIMARY", "")
	t.Setenv("LLM_TEST_FALLBACK", "from-env")

	key, err := ResolveAPIKey("configured", "LLM_TEST_PRIMARY")
	require.NoError(t, err)
	assert.Equal(t, "configured", key)

	key, err = ResolveAPIKey("", "LLM_TEST_PRIMARY", "LLM_TEST_FALLBACK")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	_, err = ResolveAPIKey("", "LLM_TEST_PRIMARY")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAPIError(t *testing.T) {
	err := &APIError{Provider: "gemini", StatusCode: 503, Body: "overloaded"}
	assert.Contains(t, err.Error(), "503")
}
