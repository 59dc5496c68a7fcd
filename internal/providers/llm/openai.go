package llm

import "time"

func NewOpenAI(timeout time.Duration) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    "https://api.openai.com",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		Timeout:    timeout,
	})
}
