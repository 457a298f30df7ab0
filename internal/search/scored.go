package search

import (
	"context"
	"sort"
	"strings"

	"github.com/researchconnect/profscout/internal/types"
)

// Compile-time interface check
var _ Retriever = (*ScoredRetriever)(nil)

// Per-token substring match weights.
const (
	fieldWeight       = 10
	nameWeight        = 5
	institutionWeight = 2
)

// ScoredRetriever is the deterministic, offline tier: substring scoring
// over every corpus record. It always returns something bounded and
// explainable regardless of upstream health.
type ScoredRetriever struct {
	cap int
}

// NewScoredRetriever creates the scored tier with the given result cap.
func NewScoredRetriever(cap int) *ScoredRetriever {
	return &ScoredRetriever{cap: cap}
}

// Retrieve scores every record, keeps positive scores, and orders by
// the count of field-token matches (not raw score) descending. Ties
// preserve corpus order.
func (r *ScoredRetriever) Retrieve(ctx context.Context, query string, corpus []types.Professor) ([]types.Professor, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []types.Professor{}, nil
	}

	type scored struct {
		prof         types.Professor
		fieldMatches int
	}

	var kept []scored
	for _, p := range corpus {
		field := strings.ToLower(p.ResearchField)
		name := strings.ToLower(p.Name)
		inst := strings.ToLower(p.Institution)

		score := 0
		fieldMatches := 0
		for _, term := range terms {
			if strings.Contains(field, term) {
				score += fieldWeight
				fieldMatches++
			}
			if strings.Contains(name, term) {
				score += nameWeight
			}
			if strings.Contains(inst, term) {
				score += institutionWeight
			}
		}
		if score > 0 {
			kept = append(kept, scored{prof: p, fieldMatches: fieldMatches})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].fieldMatches > kept[j].fieldMatches
	})

	if len(kept) > r.cap {
		kept = kept[:r.cap]
	}

	results := make([]types.Professor, len(kept))
	for i, s := range kept {
		results[i] = s.prof
	}
	return results, nil
}
