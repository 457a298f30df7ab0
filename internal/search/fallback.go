package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/researchconnect/profscout/internal/completion"
	"github.com/researchconnect/profscout/internal/types"
)

// Compile-time interface check
var _ Retriever = (*FallbackRetriever)(nil)

// FallbackRetriever tries the primary tier and delegates to the
// secondary on expected failure classes: completion-service errors
// (auth, quota, 5xx, network), unparsable output, and deadline expiry.
// Truly unexpected errors are not masked. Callers never observe which
// tier served the result.
type FallbackRetriever struct {
	primary   Retriever
	secondary Retriever
}

// NewFallbackRetriever composes the two tiers. A nil primary (semantic
// tier not configured) routes every request to the secondary.
func NewFallbackRetriever(primary, secondary Retriever) *FallbackRetriever {
	return &FallbackRetriever{primary: primary, secondary: secondary}
}

// Retrieve serves from the primary tier when it succeeds, the secondary
// otherwise.
func (r *FallbackRetriever) Retrieve(ctx context.Context, query string, corpus []types.Professor) ([]types.Professor, error) {
	if r.primary == nil {
		return r.secondary.Retrieve(ctx, query, corpus)
	}

	results, err := r.primary.Retrieve(ctx, query, corpus)
	if err == nil {
		return results, nil
	}

	if !recoverable(err) {
		return nil, err
	}

	slog.Warn("semantic retrieval failed, falling back to scored tier",
		"component", "search",
		"kind", completion.KindOf(err).String(),
		"error", err,
	)
	return r.secondary.Retrieve(ctx, query, corpus)
}

// recoverable reports whether the secondary tier should absorb the
// failure.
func recoverable(err error) bool {
	var ce *completion.Error
	switch {
	case errors.As(err, &ce):
		return true
	case errors.Is(err, ErrUnparsable):
		return true
	case errors.Is(err, completion.ErrNotConfigured):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}
