package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
)

func TestCompleteRequestShape(t *testing.T) {
	var captured []byte
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		if r.URL.Path != "/v1/complete" {
			t.Errorf("path = %q, want /v1/complete", r.URL.Path)
		}
		w.Write([]byte(`{"completion":" the answer \n"}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider("legacy-key", server.URL, "claude-2.1")

	answer, err := p.Complete(context.Background(), nil, "what is a transistor?", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q, want trimmed completion", answer)
	}

	if gotHeaders.Get("X-Api-Key") != "legacy-key" {
		t.Errorf("X-Api-Key = %q", gotHeaders.Get("X-Api-Key"))
	}
	if gotHeaders.Get("Anthropic-Version") != "2023-06-01" {
		t.Errorf("Anthropic-Version = %q", gotHeaders.Get("Anthropic-Version"))
	}

	var req struct {
		Model             string `json:"model"`
		Prompt            string `json:"prompt"`
		MaxTokensToSample int    `json:"max_tokens_to_sample"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if req.Model != "claude-2.1" {
		t.Errorf("model = %q", req.Model)
	}
	if req.Prompt != "\n\nHuman: what is a transistor?\n\nAssistant:" {
		t.Errorf("prompt = %q, wrong Human/Assistant framing", req.Prompt)
	}
	if req.MaxTokensToSample != 1024 {
		t.Errorf("max_tokens_to_sample = %d, want 1024", req.MaxTokensToSample)
	}
}

func TestCompleteIgnoresHistoryAndAttachments(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"completion":"ok"}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider("k", server.URL, "claude-2.1")

	history := []llm.Message{
		{Role: "user", Content: "SHOULD-NOT-APPEAR"},
		{Role: "assistant", Content: "SHOULD-NOT-APPEAR"},
	}
	attachments := []attachment.Attachment{
		{Kind: attachment.KindText, Data: "SHOULD-NOT-APPEAR", Name: "f.txt"},
	}
	if _, err := p.Complete(context.Background(), history, "just the prompt", attachments); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if req.Prompt != "\n\nHuman: just the prompt\n\nAssistant:" {
		t.Errorf("prompt = %q, history or attachments leaked into the request", req.Prompt)
	}
}

func TestCompleteMaxTokensOption(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"completion":"ok"}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider("k", server.URL, "claude-2.1")
	if _, err := p.Complete(context.Background(), nil, "q", nil, llm.WithMaxTokens(256)); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var req struct {
		MaxTokensToSample int `json:"max_tokens_to_sample"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if req.MaxTokensToSample != 256 {
		t.Errorf("max_tokens_to_sample = %d, want 256", req.MaxTokensToSample)
	}
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad prompt"}}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider("k", server.URL, "claude-2.1")
	if _, err := p.Complete(context.Background(), nil, "q", nil); err == nil {
		t.Error("Complete() error = nil, want error on 400")
	}
}
