package prompt

import (
	"strings"
	"testing"

	"alvely-be/pkg/search"
)

func TestBuildEmbedsQueryAndSources(t *testing.T) {
	results := []search.WebResult{
		{Title: "Go Blog", Snippet: "Generics arrived in 1.18", URL: "https://go.dev/blog"},
		{Title: "Release Notes", Snippet: "Type parameters", URL: "https://go.dev/doc"},
	}

	built := NewSynthesisBuilder("go generics", results).Build()

	if !strings.Contains(built, `answer the query: "go generics"`) {
		t.Errorf("prompt does not embed the quoted query:\n%s", built)
	}
	if !strings.Contains(built, "Go Blog: Generics arrived in 1.18 (Source: https://go.dev/blog)") {
		t.Errorf("prompt missing first grounding line:\n%s", built)
	}
	if !strings.Contains(built, "Release Notes: Type parameters (Source: https://go.dev/doc)") {
		t.Errorf("prompt missing second grounding line:\n%s", built)
	}
	if !strings.Contains(built, "include the URLs of the sources") {
		t.Errorf("prompt missing citation instruction:\n%s", built)
	}
}

func TestBuildKeepsResultOrder(t *testing.T) {
	results := []search.WebResult{
		{Title: "B", Snippet: "second", URL: "u2"},
		{Title: "A", Snippet: "first", URL: "u1"},
	}

	built := NewSynthesisBuilder("q", results).Build()

	posB := strings.Index(built, "B: second")
	posA := strings.Index(built, "A: first")
	if posB == -1 || posA == -1 || posB > posA {
		t.Errorf("grounding lines out of order:\n%s", built)
	}
}

func TestBuildWithNoSources(t *testing.T) {
	built := NewSynthesisBuilder("orphan query", nil).Build()

	if !strings.Contains(built, "Information:\n") {
		t.Errorf("prompt missing information section:\n%s", built)
	}
	if !strings.Contains(built, `"orphan query"`) {
		t.Errorf("prompt does not embed the query:\n%s", built)
	}
}
