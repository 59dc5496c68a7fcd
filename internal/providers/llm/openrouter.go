package llm

import (
	"time"

	"github.com/sandevgo/recallbot/internal/core"
)

func NewOpenRouter(timeout time.Duration) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    "https://openrouter.ai/api",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		ExtraHeaders: map[string]string{
			"X-Title": core.AppName,
		},
		Timeout: timeout,
	})
}
