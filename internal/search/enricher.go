package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/researchconnect/profscout/internal/completion"
	"github.com/researchconnect/profscout/internal/types"
)

const suggestSystemPrompt = "You are a helpful academic research assistant. You provide personalized " +
	"professor recommendations and practical advice for initiating research collaborations."

// Static fallback messages, one per completion failure class. The
// endpoint never surfaces enrichment failures as errors.
const (
	msgBusy = "Our AI recommendation service is currently experiencing high demand. " +
		"While I can't provide personalized suggestions right now, you can still browse the " +
		"professor results below. Try again in a few minutes for AI-powered recommendations."
	msgUnauthorized = "AI recommendations are temporarily unavailable due to a configuration issue. " +
		"Please explore the professor results below manually."
	msgMaintenance = "Our AI recommendation service is temporarily down for maintenance. " +
		"Please explore the professor results below, and the AI suggestions will be back online shortly."
	msgGeneric = "I couldn't generate personalized recommendations at this time. Please explore the " +
		"professor results below and consider reaching out to those whose research aligns with your interests."

	// Guidance returned for valid queries with zero matches.
	msgNoResults = "No professors matched your search. Try broader terms, a related field, " +
		"or one of the suggested searches below."
)

// Enricher asks the completion service for a short recommendation over
// the retrieved results. It never fails outward: every upstream failure
// is classified and replaced with a static message.
type Enricher struct {
	client completion.Client
	model  string
}

// NewEnricher creates an Enricher. A nil client is valid and always
// yields the generic fallback message.
func NewEnricher(client completion.Client, model string) *Enricher {
	return &Enricher{client: client, model: model}
}

// Enrich returns recommendation text for the query and results.
func (e *Enricher) Enrich(ctx context.Context, query string, results []types.Professor) string {
	if len(results) == 0 {
		return msgNoResults
	}
	if e.client == nil {
		return msgGeneric
	}

	text, err := e.client.Complete(ctx, completion.Request{
		System:      suggestSystemPrompt,
		Prompt:      e.buildPrompt(query, results),
		Model:       e.model,
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		kind := completion.KindOf(err)
		slog.Warn("suggestion enrichment failed",
			"component", "search",
			"kind", kind.String(),
			"error", err,
		)
		return fallbackMessage(kind)
	}
	return text
}

func (e *Enricher) buildPrompt(query string, results []types.Professor) string {
	compact := make([]map[string]string, len(results))
	for i, p := range results {
		compact[i] = map[string]string{
			"name":       p.Name,
			"field":      p.ResearchField,
			"university": p.Institution,
		}
	}
	encoded, _ := json.Marshal(compact)

	return fmt.Sprintf(`A user is searching for professors who research: %q.

Based on the search results, I need a personalized recommendation focused on:
1. Suggesting 1-2 specific professors from the results that would be best to contact
2. Mentioning why they're particularly good matches for this research interest
3. Providing a brief, friendly email conversation starter for reaching out to them

Here are the professors in the search results:
%s

Keep your response under 200 words, conversational, and helpful. Use a professional tone.
Do not format with markdown.`, query, encoded)
}

// fallbackMessage maps a failure class to its user-facing message.
func fallbackMessage(kind completion.Kind) string {
	switch kind {
	case completion.KindRateLimited:
		return msgBusy
	case completion.KindUnauthorized:
		return msgUnauthorized
	case completion.KindServerError:
		return msgMaintenance
	default:
		return msgGeneric
	}
}
