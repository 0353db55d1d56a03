package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
	"alvely-be/pkg/retrieval/expander"
	"alvely-be/pkg/retrieval/ledger"
	"alvely-be/pkg/retrieval/prompt"
	"alvely-be/pkg/search"
)

// Mode selects between the text (sources + cited answer) and image
// (pure retrieval) paths.
type Mode string

const (
	ModeText  Mode = "text"
	ModeImage Mode = "image"
)

// Failure kinds. Every pipeline error wraps exactly one of these; the
// orchestrator boundary converts it into a single user-visible signal.
var (
	ErrExpansionFailed = errors.New("EXPANSION_FAILED")
	ErrSearchFailed    = errors.New("SEARCH_FAILED")
	ErrSynthesisFailed = errors.New("SYNTHESIS_FAILED")
)

// BackendResolver picks the generative backend for a model id.
type BackendResolver interface {
	ForModel(modelID string) (llm.LLMProvider, error)
}

// Request is the immutable input bundle for one pipeline run. History and
// Attachments are snapshots; Ledger is a reference to the session's ledger.
type Request struct {
	Query       string
	History     []llm.Message
	Attachments []attachment.Attachment
	Mode        Mode
	ModelID     string
	Ledger      *ledger.Ledger
}

// Result is the complete output of one successful run. Exactly one of the
// three shapes is populated: (Answer, Sources) for a first-turn text run,
// Sources alone for a "load more" run, Images for an image run.
type Result struct {
	Answer  string
	Sources []search.WebResult
	Images  []search.ImageResult
}

// Pipeline coordinates expansion, search fan-out, deduplication and
// synthesis for one conversation session. Runs are sequential: every
// network call completes before the next starts, and callers must not
// submit a second run for the same session while one is active.
type Pipeline struct {
	gateway  search.Gateway
	backends BackendResolver
	logger   *log.Logger
}

func New(gateway search.Gateway, backends BackendResolver, logger *log.Logger) *Pipeline {
	return &Pipeline{
		gateway:  gateway,
		backends: backends,
		logger:   logger,
	}
}

// Execute runs one retrieval request to completion. Any stage failure
// aborts the whole run: no partial sources or images are ever returned
// alongside an error, and the ledger is only touched once retrieval has
// fully succeeded.
func (p *Pipeline) Execute(ctx context.Context, req *Request) (*Result, error) {
	backend, err := p.backends.ForModel(req.ModelID)
	if err != nil {
		return nil, fmt.Errorf("resolve backend: %w", err)
	}

	switch req.Mode {
	case ModeText:
		if hasAssistantTurn(req.History) {
			return p.fetchMore(ctx, req)
		}
		return p.textRun(ctx, backend, req)
	case ModeImage:
		return p.imageRun(ctx, backend, req)
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
}

// fetchMore supplements sources for a query that already has an answer:
// one literal web search, no expansion, no synthesis.
func (p *Pipeline) fetchMore(ctx context.Context, req *Request) (*Result, error) {
	p.logger.Printf("[PIPELINE] Fetching more sources for %q", truncate(req.Query, 50))

	results, err := p.gateway.WebSearch(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	fresh := req.Ledger.FilterNewWeb(results)
	p.logger.Printf("[PIPELINE] More-path done: %d new of %d fetched", len(fresh), len(results))

	return &Result{Sources: fresh}, nil
}

// textRun is the full first-turn path: expansion, web fan-out,
// deduplication and cited-answer synthesis.
func (p *Pipeline) textRun(ctx context.Context, backend llm.LLMProvider, req *Request) (*Result, error) {
	p.logger.Printf("[PHASE 1] Expanding query %q", truncate(req.Query, 50))

	related, err := expander.New(backend, p.logger).Expand(ctx, req.Query, req.Attachments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpansionFailed, err)
	}

	p.logger.Printf("[PHASE 2] Searching %d expanded queries", len(related))

	var all []search.WebResult
	for _, q := range related {
		results, err := p.gateway.WebSearch(ctx, q)
		if err != nil {
			// One failing sub-query aborts the whole batch: emissions are
			// all-or-nothing and the ledger has not been touched yet.
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
		all = append(all, results...)
	}

	fresh := req.Ledger.FilterNewWeb(all)
	p.logger.Printf("[PHASE 2] %d new sources of %d fetched", len(fresh), len(all))

	p.logger.Printf("[PHASE 3] Synthesizing answer from %d sources", len(fresh))

	synthesisPrompt := prompt.NewSynthesisBuilder(req.Query, fresh).Build()
	answer, err := backend.Complete(ctx, req.History, synthesisPrompt, req.Attachments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	return &Result{Answer: answer, Sources: fresh}, nil
}

// imageRun is pure retrieval: expansion and image fan-out, never synthesis.
func (p *Pipeline) imageRun(ctx context.Context, backend llm.LLMProvider, req *Request) (*Result, error) {
	p.logger.Printf("[PHASE 1] Expanding image query %q", truncate(req.Query, 50))

	related, err := expander.New(backend, p.logger).Expand(ctx, req.Query, req.Attachments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpansionFailed, err)
	}

	p.logger.Printf("[PHASE 2] Searching images for %d expanded queries", len(related))

	var all []search.ImageResult
	for _, q := range related {
		results, err := p.gateway.ImageSearch(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
		all = append(all, results...)
	}

	fresh := req.Ledger.FilterNewImages(all)
	p.logger.Printf("[PHASE 2] %d new images of %d fetched", len(fresh), len(all))

	return &Result{Images: fresh}, nil
}

func hasAssistantTurn(history []llm.Message) bool {
	for _, msg := range history {
		if msg.Role == "assistant" {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
