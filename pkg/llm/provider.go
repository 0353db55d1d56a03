package llm

import (
	"context"

	"alvely-be/pkg/attachment"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

// LLMProvider defines the contract for any generative backend.
//
// Complete sends the conversation history plus one trailing user turn built
// from prompt and attachments, and returns the generated text. Providers
// that cannot represent history or attachments are free to ignore them.
type LLMProvider interface {
	Complete(ctx context.Context, history []Message, prompt string, attachments []attachment.Attachment, options ...Option) (string, error)
}
