package factory

import (
	"fmt"

	"ai-research-safety-be/pkg/llm"
	"ai-research-safety-be/pkg/llm/ollama"
	"ai-research-safety-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured text-generation backend.
// Only OpenAI carries the vision/search/moderation capabilities; Ollama is a
// chat-only option for local deployments where those stages degrade to their
// deterministic fallbacks.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
