package factory

import (
	"fmt"

	"alvely-be/pkg/llm"
	"alvely-be/pkg/llm/anthropic"
	"alvely-be/pkg/llm/openai"
)

// chatModels is the allow-list of models served by the chat-completion
// backend. Everything else goes through the legacy completion backend.
var chatModels = map[string]bool{
	"gpt-4o":      true,
	"gpt-4o-mini": true,
	"o1-mini":     true,
	"o1-preview":  true,
}

// Keys holds the provider credentials needed to construct a backend.
type Keys struct {
	OpenAI           string
	OpenAIBaseURL    string
	Anthropic        string
	AnthropicBaseURL string
}

// IsChatModel reports whether modelID selects the chat-completion backend.
// Selection depends only on the model id.
func IsChatModel(modelID string) bool {
	return chatModels[modelID]
}

// Resolver is a reusable BackendResolver bound to one set of credentials.
type Resolver struct {
	keys Keys
}

func NewResolver(keys Keys) *Resolver {
	return &Resolver{keys: keys}
}

func (r *Resolver) ForModel(modelID string) (llm.LLMProvider, error) {
	return ForModel(modelID, r.keys)
}

// ForModel returns the generative backend for the given model id.
func ForModel(modelID string, keys Keys) (llm.LLMProvider, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	if IsChatModel(modelID) {
		return openai.NewOpenAIProvider(keys.OpenAI, keys.OpenAIBaseURL, modelID), nil
	}
	return anthropic.NewAnthropicProvider(keys.Anthropic, keys.AnthropicBaseURL, modelID), nil
}
