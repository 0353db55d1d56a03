package expander

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error

	gotHistory []llm.Message
	gotPrompt  string
}

func (f *fakeProvider) Complete(ctx context.Context, history []llm.Message, prompt string, attachments []attachment.Attachment, options ...llm.Option) (string, error) {
	f.gotHistory = history
	f.gotPrompt = prompt
	return f.response, f.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestParseQueries(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "plain lines",
			response: "history of rome\nroman empire timeline",
			want:     []string{"history of rome", "roman empire timeline"},
		},
		{
			name:     "bulleted lines",
			response: "- first query\n* second query\n  - third query",
			want:     []string{"first query", "second query", "third query"},
		},
		{
			name:     "blank lines dropped",
			response: "one\n\n\ntwo\n",
			want:     []string{"one", "two"},
		},
		{
			name:     "whitespace only response",
			response: "   \n\t\n",
			want:     nil,
		},
		{
			name:     "empty response",
			response: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQueries(tt.response)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQueries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandSendsPrimedRequest(t *testing.T) {
	provider := &fakeProvider{response: "q1\nq2"}
	e := New(provider, discardLogger())

	queries, err := e.Expand(context.Background(), "quantum computing", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("Expand() = %v, want 2 queries", queries)
	}

	if len(provider.gotHistory) != 1 || provider.gotHistory[0].Role != "system" {
		t.Errorf("history = %v, want single system message", provider.gotHistory)
	}
	if !strings.Contains(provider.gotPrompt, "'quantum computing'") {
		t.Errorf("prompt %q does not embed the topic", provider.gotPrompt)
	}
	if !strings.Contains(provider.gotPrompt, "each query on a new line") {
		t.Errorf("prompt %q missing line format instruction", provider.gotPrompt)
	}
}

func TestExpandEmptyResponseIsNotAnError(t *testing.T) {
	provider := &fakeProvider{response: "\n\n"}
	e := New(provider, discardLogger())

	queries, err := e.Expand(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v, want nil", err)
	}
	if len(queries) != 0 {
		t.Errorf("Expand() = %v, want empty", queries)
	}
}

func TestExpandPropagatesBackendError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("backend down")}
	e := New(provider, discardLogger())

	_, err := e.Expand(context.Background(), "anything", nil)
	if err == nil {
		t.Fatal("Expand() error = nil, want backend error")
	}
	if !strings.Contains(err.Error(), "backend down") {
		t.Errorf("error %q does not wrap the backend error", err)
	}
}
