package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
)

func newTestServer(t *testing.T, capture *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*capture = body

		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"the answer"}}]}`))
	}))
}

func TestCompleteReplaysHistory(t *testing.T) {
	var captured []byte
	server := newTestServer(t, &captured)
	defer server.Close()

	p := NewOpenAIProvider("test-key", server.URL, "gpt-4o-mini")

	history := []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	answer, err := p.Complete(context.Background(), history, "new question", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q", answer)
	}

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}

	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", req.Model)
	}
	// Three history turns plus the trailing user prompt
	if len(req.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[2].Role != "assistant" {
		t.Errorf("history roles not preserved: %+v", req.Messages)
	}
	last := req.Messages[3]
	if last.Role != "user" || string(last.Content) != `"new question"` {
		t.Errorf("trailing message = %+v, want plain string user prompt", last)
	}
}

func TestCompleteEncodesAttachmentsAsParts(t *testing.T) {
	var captured []byte
	server := newTestServer(t, &captured)
	defer server.Close()

	p := NewOpenAIProvider("test-key", server.URL, "gpt-4o")

	attachments := []attachment.Attachment{
		{Kind: attachment.KindImage, Data: "aW1n", Name: "shot.png"},
		{Kind: attachment.KindCode, Data: "package main", Name: "main.go"},
	}
	if _, err := p.Complete(context.Background(), nil, "describe this", attachments); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				ImageURL *struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(req.Messages))
	}

	parts := req.Messages[0].Content
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want text + image + code context", len(parts))
	}
	if parts[0].Type != "text" || parts[0].Text != "describe this" {
		t.Errorf("first part = %+v, want the prompt text", parts[0])
	}
	if parts[1].Type != "image_url" || parts[1].ImageURL == nil ||
		parts[1].ImageURL.URL != "data:image/png;base64,aW1n" {
		t.Errorf("image part = %+v", parts[1])
	}
	if parts[2].Type != "text" || !strings.Contains(parts[2].Text, "uploaded code file") {
		t.Errorf("code part = %+v", parts[2])
	}
}

func TestCompleteAPIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("k", server.URL, "gpt-4o")
	if _, err := p.Complete(context.Background(), nil, "q", nil); err == nil {
		t.Error("Complete() error = nil, want error on 429")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("k", server.URL, "gpt-4o")
	if _, err := p.Complete(context.Background(), nil, "q", nil); err == nil {
		t.Error("Complete() error = nil, want error on empty choices")
	}
}
