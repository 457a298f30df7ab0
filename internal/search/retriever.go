// Package search implements two-tier relevance retrieval over the
// professor corpus: a semantic tier backed by the completion service
// and a deterministic scored tier that keeps the endpoint answering
// when the upstream is degraded.
package search

import (
	"context"
	"errors"

	"github.com/researchconnect/profscout/internal/types"
)

// ErrUnparsable is returned when the semantic tier cannot extract a
// well-formed JSON array from the completion text.
var ErrUnparsable = errors.New("no parsable JSON array in completion response")

// Retriever returns professors ranked by relevance to the query.
// Implementations must bound the result length; ordering is significant
// and preserved into the response.
type Retriever interface {
	Retrieve(ctx context.Context, query string, corpus []types.Professor) ([]types.Professor, error)
}
