package types

import (
	"encoding/json"
	"strings"
)

// Professor represents one catalog entry of the professor corpus.
// Records are immutable once loaded; the corpus is treated as a value.
type Professor struct {
	Name          string `json:"name"`
	ResearchField string `json:"field_of_research"`
	Institution   string `json:"university_name"`
	ContactEmail  string `json:"email,omitempty"`
	ProfileURL    string `json:"official_url"`

	// Display-only metrics, non-authoritative.
	Publications int `json:"publications,omitempty"`
	Citations    int `json:"citations,omitempty"`

	// Derived at response time, never stored in the corpus.
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
}

// PrimaryField returns the first segment of the semicolon-delimited
// research field list.
func (p Professor) PrimaryField() string {
	field, _, _ := strings.Cut(p.ResearchField, ";")
	return strings.TrimSpace(field)
}

// QueryValidation carries the validator verdict surfaced in responses.
type QueryValidation struct {
	Confidence float64 `json:"confidence"`
	Suggestion string  `json:"suggestion,omitempty"`
}

// SearchResponse is the 200 payload for a search that found results.
type SearchResponse struct {
	Professors      []Professor     `json:"professors"`
	AISuggestion    string          `json:"aiSuggestion"`
	Total           int             `json:"total"`
	QueryValidation QueryValidation `json:"queryValidation"`
}

// EmptySearchResponse is the 200 payload for a valid query with no matches.
type EmptySearchResponse struct {
	Professors        []Professor `json:"professors"`
	AISuggestion      string      `json:"aiSuggestion"`
	Total             int         `json:"total"`
	SearchSuggestions []string    `json:"searchSuggestions"`
}

// RejectedQueryResponse is the 400 payload for queries the validator refuses.
type RejectedQueryResponse struct {
	Message    string  `json:"message"`
	Suggestion string  `json:"suggestion,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence"`
}

// RateLimitedResponse is the 429 payload.
type RateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// InternalErrorResponse is the 500 payload. Error is populated only in
// dev mode; Timestamp is RFC 3339.
type InternalErrorResponse struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	CorpusSize      int    `json:"corpus_size"`
	CompletionModel string `json:"completion_model"`
}

// MarshalJSON ensures a nil professor slice marshals as [] not null.
func (r SearchResponse) MarshalJSON() ([]byte, error) {
	if r.Professors == nil {
		r.Professors = []Professor{}
	}
	type Alias SearchResponse
	return json.Marshal(Alias(r))
}

// MarshalJSON ensures nil slices marshal as [] not null.
func (r EmptySearchResponse) MarshalJSON() ([]byte, error) {
	if r.Professors == nil {
		r.Professors = []Professor{}
	}
	if r.SearchSuggestions == nil {
		r.SearchSuggestions = []string{}
	}
	type Alias EmptySearchResponse
	return json.Marshal(Alias(r))
}
