package factory

import (
	"testing"

	"alvely-be/pkg/llm/anthropic"
	"alvely-be/pkg/llm/openai"
)

func TestIsChatModel(t *testing.T) {
	tests := []struct {
		modelID string
		want    bool
	}{
		{"gpt-4o", true},
		{"gpt-4o-mini", true},
		{"o1-mini", true},
		{"o1-preview", true},
		{"claude-2.1", false},
		{"claude-instant-1.2", false},
		{"gpt-4o-mini-2024", false}, // exact match only
		{"GPT-4O", false},           // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			if got := IsChatModel(tt.modelID); got != tt.want {
				t.Errorf("IsChatModel(%q) = %v, want %v", tt.modelID, got, tt.want)
			}
		})
	}
}

func TestForModelSelectsBackendByID(t *testing.T) {
	keys := Keys{OpenAI: "ok", Anthropic: "ak"}

	chat, err := ForModel("gpt-4o-mini", keys)
	if err != nil {
		t.Fatalf("ForModel(gpt-4o-mini) error = %v", err)
	}
	if _, ok := chat.(*openai.OpenAIProvider); !ok {
		t.Errorf("ForModel(gpt-4o-mini) = %T, want *openai.OpenAIProvider", chat)
	}

	legacy, err := ForModel("claude-2.1", keys)
	if err != nil {
		t.Fatalf("ForModel(claude-2.1) error = %v", err)
	}
	if _, ok := legacy.(*anthropic.AnthropicProvider); !ok {
		t.Errorf("ForModel(claude-2.1) = %T, want *anthropic.AnthropicProvider", legacy)
	}
}

func TestForModelIsDeterministic(t *testing.T) {
	keys := Keys{OpenAI: "ok", Anthropic: "ak"}

	for i := 0; i < 3; i++ {
		p, err := ForModel("o1-preview", keys)
		if err != nil {
			t.Fatalf("ForModel() error = %v", err)
		}
		if _, ok := p.(*openai.OpenAIProvider); !ok {
			t.Fatalf("iteration %d: ForModel() = %T, selection flapped", i, p)
		}
	}
}

func TestForModelRejectsEmptyID(t *testing.T) {
	if _, err := ForModel("", Keys{}); err == nil {
		t.Error("ForModel(\"\") error = nil, want error")
	}
}

func TestResolverDelegates(t *testing.T) {
	r := NewResolver(Keys{OpenAI: "ok", Anthropic: "ak"})

	p, err := r.ForModel("gpt-4o")
	if err != nil {
		t.Fatalf("Resolver.ForModel() error = %v", err)
	}
	if _, ok := p.(*openai.OpenAIProvider); !ok {
		t.Errorf("Resolver.ForModel(gpt-4o) = %T, want *openai.OpenAIProvider", p)
	}
}
