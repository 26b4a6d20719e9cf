package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LLM providers selectable through LLM_PROVIDER.
const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

type ProviderConfig struct {
	Provider       string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	GeminiAPIKey   string
	GeminiModelID  string
	BedrockModelID string
}

// BuildLLMClient returns the client for cfg.Provider. bedrock is only
// consulted for the bedrock provider.
func BuildLLMClient(ctx context.Context, cfg ProviderConfig, bedrock bedrockConverseAPI) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, errors.New("conversation: OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAILLMClient(NewOpenAIChatClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), cfg.OpenAIModel), nil
	case ProviderGemini:
		return NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	case ProviderBedrock:
		if bedrock == nil {
			return nil, errors.New("conversation: bedrock client is required for the bedrock provider")
		}
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, errors.New("conversation: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		return NewBedrockLLMClient(bedrock, cfg.BedrockModelID), nil
	default:
		return nil, fmt.Errorf("conversation: unknown llm provider %q", cfg.Provider)
	}
}
