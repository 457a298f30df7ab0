package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/researchconnect/profscout/internal/completion"
	"github.com/researchconnect/profscout/internal/types"
)

// Compile-time interface check
var _ Retriever = (*SemanticRetriever)(nil)

const matchSystemPrompt = "You are a helpful assistant that matches professors to research queries. " +
	"Your response should be ONLY a valid JSON array with no additional text."

// SemanticRetriever asks the completion service to select relevant
// professors. The corpus slice sent upstream is bounded to respect
// payload and token limits.
type SemanticRetriever struct {
	client      completion.Client
	model       string
	corpusSlice int
	cap         int
}

// NewSemanticRetriever creates the semantic tier. corpusSlice bounds
// the records included in the prompt; cap bounds the result length.
func NewSemanticRetriever(client completion.Client, model string, corpusSlice, cap int) *SemanticRetriever {
	return &SemanticRetriever{
		client:      client,
		model:       model,
		corpusSlice: corpusSlice,
		cap:         cap,
	}
}

// Retrieve submits the query and a corpus slice, expecting back only a
// JSON array of matching records.
func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, corpus []types.Professor) ([]types.Professor, error) {
	slice := corpus
	if len(slice) > r.corpusSlice {
		slice = slice[:r.corpusSlice]
	}

	prompt, err := r.buildPrompt(query, slice)
	if err != nil {
		return nil, err
	}

	content, err := r.client.Complete(ctx, completion.Request{
		System:      matchSystemPrompt,
		Prompt:      prompt,
		Model:       r.model,
		Temperature: 0.2,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, err
	}

	matches, err := parseProfessorArray(content)
	if err != nil {
		return nil, err
	}

	if len(matches) > r.cap {
		matches = matches[:r.cap]
	}
	return matches, nil
}

func (r *SemanticRetriever) buildPrompt(query string, slice []types.Professor) (string, error) {
	dataset := make([]map[string]string, len(slice))
	for i, p := range slice {
		dataset[i] = map[string]string{
			"name":              p.Name,
			"field_of_research": p.ResearchField,
			"university_name":   p.Institution,
			"email":             p.ContactEmail,
			"official_url":      p.ProfileURL,
		}
	}
	encoded, err := json.Marshal(dataset)
	if err != nil {
		return "", fmt.Errorf("encode corpus slice: %w", err)
	}

	return fmt.Sprintf(`Based on this user input: %q, return the most relevant professors from this dataset as a JSON array.
Include professors who match closely or are in similar subfields.
The response should ONLY be a valid JSON array of objects with no additional text.
Each object should include name, field_of_research, university_name, email, and official_url fields.
Limit results to the %d most relevant professors.

Dataset: %s`, query, r.cap, encoded), nil
}

// parseProfessorArray extracts the first well-formed JSON array
// substring from the completion text. Models occasionally wrap the
// array in prose or code fences; everything outside the outermost
// brackets is discarded.
func parseProfessorArray(content string) ([]types.Professor, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return nil, ErrUnparsable
	}

	var matches []types.Professor
	if err := json.Unmarshal([]byte(content[start:end+1]), &matches); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	// Drop fabricated entries the model returned without a name.
	kept := matches[:0]
	for _, m := range matches {
		if strings.TrimSpace(m.Name) != "" {
			kept = append(kept, m)
		}
	}
	return kept, nil
}
