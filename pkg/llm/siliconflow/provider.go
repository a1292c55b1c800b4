// Package siliconflow registers SiliconFlow's OpenAI compatible chat API as
// provider "siliconflow".
package siliconflow

import (
	"time"

	"github.com/kart-io/campusgpt/pkg/llm"
	"github.com/kart-io/campusgpt/pkg/llm/openai"
)

const ProviderName = "siliconflow"

var APIKeyEnvs = []string{"SILICONFLOW_API_KEY", "API_KEY"}

var service = openai.Compatible{
	Name: ProviderName,
	Defaults: openai.Config{
		BaseURL:   "https://api.siliconflow.cn/v1",
		ChatModel: "Qwen/Qwen2.5-7B-Instruct",
		Timeout:   120 * time.Second,
	},
	KeyEnvs: APIKeyEnvs,
}

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

func NewProvider(config map[string]any) (llm.Provider, error) {
	return service.New(config)
}
