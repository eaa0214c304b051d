// Package agent orchestrates the research and question-answering flows:
// search the context platform first, generate from stored context when it
// hits, and degrade to deep streaming research or direct generation when it
// misses. Failures degrade, they do not propagate as panics or empty
// explanations.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hexlockco/alembic/pkg/platform"
	"github.com/hexlockco/alembic/pkg/stream"
)

// Similarity thresholds differ between the two flows: research tolerates
// weaker matches than question answering.
const (
	researchSimilarity        = 0.8
	researchMinimumSimilarity = 0.4
	answerSimilarity          = 0.8
	answerMinimumSimilarity   = 0.5

	contextScope = "internal"
)

// fallbackPrefix marks an answer produced without any stored context after
// the primary generation attempt failed.
const fallbackPrefix = "[Fallback response - no context used]\n"

// ContextSearcher queries the context platform's vector store.
type ContextSearcher interface {
	SearchContext(ctx context.Context, req platform.SearchRequest) (*platform.SearchResponse, error)
}

// StreamGenerator produces a streamed deep-research response.
type StreamGenerator interface {
	GenerateStream(ctx context.Context, prompt string, cb stream.Callback) (string, error)
}

// TextGenerator produces a single non-streamed completion.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Agent wires the three capabilities together.
type Agent struct {
	searcher ContextSearcher
	deep     StreamGenerator
	gen      TextGenerator
	log      *slog.Logger
}

// New returns an Agent. The logger may be nil.
func New(searcher ContextSearcher, deep StreamGenerator, gen TextGenerator, log *slog.Logger) *Agent {
	if log == nil {
		log = slog.Default()
	}
	return &Agent{
		searcher: searcher,
		deep:     deep,
		gen:      gen,
		log:      log,
	}
}

// Research produces a research report for query. When stored context
// matches, the report is generated from that context alone; otherwise the
// agent streams a deep research response from the platform. Events are
// delivered to cb throughout.
func (a *Agent) Research(ctx context.Context, query string, cb stream.Callback) (string, error) {
	emit(cb, stream.Event{Kind: stream.KindStatus, Text: "Starting analysis..."})

	combined := a.searchJoined(ctx, query, researchSimilarity, researchMinimumSimilarity)

	if strings.TrimSpace(combined) != "" {
		report, err := a.gen.GenerateText(ctx, contextReportPrompt(query, combined))
		if err != nil {
			emit(cb, stream.Event{Kind: stream.KindError, Text: "report generation failed: " + err.Error()})
			return "", fmt.Errorf("generating context report: %w", err)
		}

		emit(cb, stream.Event{Kind: stream.KindContent, Text: report})
		emit(cb, stream.Event{Kind: stream.KindStatus, Text: "Context-enhanced analysis complete"})
		return report, nil
	}

	emit(cb, stream.Event{Kind: stream.KindStatus, Text: "Performing deep web research..."})

	report, err := a.deep.GenerateStream(ctx, researchPrompt(query), cb)
	if err != nil {
		// GenerateStream already emitted the error event.
		return "", err
	}

	emit(cb, stream.Event{Kind: stream.KindStatus, Text: "Analysis complete"})
	return report, nil
}

// Answer responds to question using stored context when available, the bare
// question when not, and a prefixed no-context retry when the primary
// generation attempt fails.
func (a *Agent) Answer(ctx context.Context, question string) (string, error) {
	contexts := a.searchContexts(ctx, question, answerSimilarity, answerMinimumSimilarity)

	prompt := question
	if len(contexts) > 0 {
		a.log.Debug("answering with stored context", "matches", len(contexts))
		prompt = answerPrompt(question, contexts)
	} else {
		a.log.Debug("no relevant context found, answering from general knowledge")
	}

	answer, err := a.gen.GenerateText(ctx, prompt)
	if err == nil {
		return answer, nil
	}

	a.log.Warn("primary answer generation failed, retrying without context", "error", err)

	retry, retryErr := a.gen.GenerateText(ctx, question)
	if retryErr != nil {
		return "", fmt.Errorf("unable to generate response: %w", retryErr)
	}

	return fallbackPrefix + retry, nil
}

// searchJoined returns all matched context joined into one string, or ""
// when the search misses or fails. A search failure is a degraded mode, not
// an error: research continues down the deep-research path.
func (a *Agent) searchJoined(ctx context.Context, query string, threshold, minimum float64) string {
	resp, err := a.search(ctx, query, threshold, minimum)
	if err != nil {
		return ""
	}
	return resp.JoinedContent()
}

func (a *Agent) searchContexts(ctx context.Context, query string, threshold, minimum float64) []string {
	resp, err := a.search(ctx, query, threshold, minimum)
	if err != nil {
		return nil
	}

	contexts := make([]string, 0, len(resp.Contexts))
	for _, c := range resp.Contexts {
		contexts = append(contexts, c.Content)
	}
	return contexts
}

func (a *Agent) search(ctx context.Context, query string, threshold, minimum float64) (*platform.SearchResponse, error) {
	resp, err := a.searcher.SearchContext(ctx, platform.SearchRequest{
		Query:                      query,
		SimilarityThreshold:        threshold,
		MinimumSimilarityThreshold: minimum,
		Scope:                      contextScope,
	})
	if err != nil {
		a.log.Warn("context search failed", "error", err)
		return nil, err
	}
	return resp, nil
}

func emit(cb stream.Callback, ev stream.Event) {
	if cb != nil {
		cb(ev)
	}
}
