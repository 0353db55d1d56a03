package expander

import (
	"context"
	"fmt"
	"log"
	"strings"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
)

const systemPriming = "You are an assistant that generates related search queries."

// Expander turns one user query into a list of related search queries via
// the generative backend. It is used only on the first retrieval for a
// query; "load more" reuses the verbatim query text and skips expansion.
type Expander struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func New(provider llm.LLMProvider, logger *log.Logger) *Expander {
	return &Expander{
		provider: provider,
		logger:   logger,
	}
}

// Expand asks the backend for related queries, one per line. Attachments
// ride along as additional context parts in the same request. A response
// with zero usable lines yields an empty expansion, not an error.
func (e *Expander) Expand(ctx context.Context, query string, attachments []attachment.Attachment) ([]string, error) {
	prompt := fmt.Sprintf(
		"Generate a list of detailed search queries that expand upon the topic: '%s'. Provide each query on a new line.",
		query,
	)

	history := []llm.Message{{Role: "system", Content: systemPriming}}

	response, err := e.provider.Complete(ctx, history, prompt, attachments)
	if err != nil {
		return nil, fmt.Errorf("query expansion failed: %w", err)
	}

	queries := ParseQueries(response)
	e.logger.Printf("[EXPANDER] %d related queries for %q", len(queries), query)
	return queries, nil
}

// ParseQueries splits a backend response into queries: one per line,
// leading list bullets and surrounding whitespace stripped, empty lines
// discarded.
func ParseQueries(response string) []string {
	var queries []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-* ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		queries = append(queries, line)
	}
	return queries
}
