package prompt

import (
	"fmt"
	"strings"

	"alvely-be/pkg/search"
)

// SynthesisBuilder builds the grounding context and the instruction prompt
// for the final cited-answer generation.
type SynthesisBuilder struct {
	query   string
	results []search.WebResult
}

func NewSynthesisBuilder(query string, results []search.WebResult) *SynthesisBuilder {
	return &SynthesisBuilder{
		query:   query,
		results: results,
	}
}

// Build creates the synthesis prompt: each kept result's title and snippet
// tagged with its source URL, followed by the citation instruction.
func (b *SynthesisBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf(
		"Using the following information from various sources, answer the query: %q and cite the sources in your response.\n\n",
		b.query,
	))
	prompt.WriteString("Information:\n")
	prompt.WriteString(b.groundingContext())
	prompt.WriteString("\n\nProvide a detailed answer, and include the URLs of the sources you used.")

	return prompt.String()
}

func (b *SynthesisBuilder) groundingContext() string {
	lines := make([]string, 0, len(b.results))
	for _, r := range b.results {
		lines = append(lines, fmt.Sprintf("%s: %s (Source: %s)", r.Title, r.Snippet, r.URL))
	}
	return strings.Join(lines, "\n")
}
