package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/researchconnect/profscout/internal/history"
	"github.com/researchconnect/profscout/internal/query"
	"github.com/researchconnect/profscout/internal/search"
	"github.com/researchconnect/profscout/internal/types"
)

// maxRawQueryLength bounds raw input before validation even sees it.
const maxRawQueryLength = 200

// historyRecordTimeout bounds best-effort history writes that outlive
// the request.
const historyRecordTimeout = 5 * time.Second

// Enricher produces recommendation text and never fails outward.
type Enricher interface {
	Enrich(ctx context.Context, query string, results []types.Professor) string
}

// Handler implements the API handlers.
type Handler struct {
	corpus    []types.Professor
	validator *query.Validator
	retriever search.Retriever
	enricher  Enricher
	history   history.Store
	model     string
	version   string
	devMode   bool
}

// NewHandler wires the pipeline stages. The corpus is immutable for the
// handler's lifetime.
func NewHandler(
	corpus []types.Professor,
	validator *query.Validator,
	retriever search.Retriever,
	enricher Enricher,
	historyStore history.Store,
	model string,
	version string,
	devMode bool,
) *Handler {
	return &Handler{
		corpus:    corpus,
		validator: validator,
		retriever: retriever,
		enricher:  enricher,
		history:   historyStore,
		model:     model,
		version:   version,
		devMode:   devMode,
	}
}

// Health returns the health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:          "healthy",
		Version:         h.version,
		CorpusSize:      len(h.corpus),
		CompletionModel: h.model,
	})
}

// Search handles GET /api/v1/professors/search.
//
// Pipeline order: validate → retrieve → enrich. Invalid queries
// short-circuit before any retrieval or enrichment cost is paid, and a
// valid query with zero matches is a 200 with guidance, never an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	raw := r.URL.Query().Get("query")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Search query is required",
		})
		return
	}

	q := truncateRunes(strings.TrimSpace(raw), maxRawQueryLength)

	verdict := h.validator.Validate(q)
	if !verdict.IsValid {
		h.recordSearch(q, verdict, 0, start)
		writeJSON(w, http.StatusBadRequest, types.RejectedQueryResponse{
			Message:    verdict.Message,
			Suggestion: verdict.Suggestion,
			Reason:     verdict.Reason,
			Confidence: verdict.Confidence,
		})
		return
	}

	results, err := h.retriever.Retrieve(ctx, q, h.corpus)
	if err != nil {
		slog.Error("retrieval failed",
			"component", "api",
			"query", q,
			"error", err,
		)
		writeInternalError(w, h.devMode, err)
		return
	}

	h.recordSearch(q, verdict, len(results), start)

	if len(results) == 0 {
		writeJSON(w, http.StatusOK, types.EmptySearchResponse{
			Professors:        []types.Professor{},
			AISuggestion:      h.enricher.Enrich(ctx, q, nil),
			Total:             0,
			SearchSuggestions: query.Suggestions(q),
		})
		return
	}

	enhanced := enhanceForDisplay(results)
	suggestion := h.enricher.Enrich(ctx, q, enhanced)

	writeJSON(w, http.StatusOK, types.SearchResponse{
		Professors:   enhanced,
		AISuggestion: suggestion,
		Total:        len(enhanced),
		QueryValidation: types.QueryValidation{
			Confidence: verdict.Confidence,
			Suggestion: verdict.Suggestion,
		},
	})
}

// truncateRunes caps s at max characters without splitting a multibyte
// rune, so the validator never sees invalid UTF-8.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// enhanceForDisplay derives presentation fields without touching the
// corpus records themselves.
func enhanceForDisplay(results []types.Professor) []types.Professor {
	enhanced := make([]types.Professor, len(results))
	for i, p := range results {
		if field := p.PrimaryField(); field != "" {
			p.Title = "Professor of " + field
		}
		p.Source = "Local Database"
		enhanced[i] = p
	}
	return enhanced
}

// recordSearch persists the search outcome best-effort; failures are
// logged and never surfaced. The write runs detached from the request
// context so a client disconnect does not lose the record.
func (h *Handler) recordSearch(q string, verdict query.Result, resultCount int, start time.Time) {
	if h.history == nil {
		return
	}

	entry := history.Search{
		Query:       q,
		Valid:       verdict.IsValid,
		Confidence:  verdict.Confidence,
		ResultCount: resultCount,
		DurationMs:  time.Since(start).Milliseconds(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyRecordTimeout)
		defer cancel()
		if err := h.history.Record(ctx, entry); err != nil {
			slog.Warn("failed to record search history",
				"component", "api",
				"error", err,
			)
		}
	}()
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeInternalError writes the generic 500 body. Internal detail is
// included only in dev mode. If serialization of the error body itself
// fails, a hand-built minimal JSON string is written so the client
// never receives a non-JSON body.
func writeInternalError(w http.ResponseWriter, devMode bool, cause any) {
	body := types.InternalErrorResponse{
		Message:   "Internal server error",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if devMode {
		body.Error = fmt.Sprint(cause)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		encoded = []byte(fmt.Sprintf(`{"message":"Internal server error","timestamp":%q}`,
			time.Now().UTC().Format(time.RFC3339)))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write(encoded); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
