// Package deepseek registers the DeepSeek chat API, which is OpenAI
// compatible, as provider "deepseek".
package deepseek

import (
	"time"

	"github.com/kart-io/campusgpt/pkg/llm"
	"github.com/kart-io/campusgpt/pkg/llm/openai"
)

const ProviderName = "deepseek"

// APIKeyEnvs 未配置密钥时依次读取的环境变量。
var APIKeyEnvs = []string{"DEEPSEEK_API_KEY", "API_KEY"}

var service = openai.Compatible{
	Name: ProviderName,
	Defaults: openai.Config{
		BaseURL:   "https://api.deepseek.com",
		ChatModel: "deepseek-chat",
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
