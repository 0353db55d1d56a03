package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
)

const (
	humanPrompt = "\n\nHuman:"
	aiPrompt    = "\n\nAssistant:"

	// Fixed completion budget for the legacy API.
	maxTokensToSample = 1024
)

// AnthropicProvider is the legacy completion-style backend. Each call is
// single-turn: the prompt is flattened into one Human/Assistant delimited
// string, and conversation history and attachments are not replayed.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Ensure AnthropicProvider implements LLMProvider
var _ llm.LLMProvider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, baseURL, model string) *AnthropicProvider {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com" // Default
	}
	return &AnthropicProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type completionRequest struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	MaxTokensToSample int    `json:"max_tokens_to_sample"`
}

type completionResponse struct {
	Completion string `json:"completion"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Interface implementation ---

func (p *AnthropicProvider) Complete(ctx context.Context, _ []llm.Message, prompt string, _ []attachment.Attachment, options ...llm.Option) (string, error) {
	opts := &llm.Options{MaxTokens: maxTokensToSample}
	for _, o := range options {
		o(opts)
	}

	payload, err := json.Marshal(completionRequest{
		Model:             p.model,
		Prompt:            humanPrompt + " " + prompt + aiPrompt,
		MaxTokensToSample: opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := p.baseURL + "/v1/complete"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("Anthropic-Version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", parsed.Error.Message)
	}

	return strings.TrimSpace(parsed.Completion), nil
}
