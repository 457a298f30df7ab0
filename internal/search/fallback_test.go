package search

import (
	"context"
	"errors"
	"testing"

	"github.com/researchconnect/profscout/internal/completion"
	"github.com/researchconnect/profscout/internal/types"
)

// stubRetriever returns fixed results or a fixed error.
type stubRetriever struct {
	results []types.Professor
	err     error
	calls   int
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, corpus []types.Professor) ([]types.Professor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &stubRetriever{results: []types.Professor{{Name: "Semantic"}}}
	secondary := &stubRetriever{results: []types.Professor{{Name: "Scored"}}}
	r := NewFallbackRetriever(primary, secondary)

	results, err := r.Retrieve(context.Background(), "machine learning", nil)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Semantic" {
		t.Errorf("results = %v, want primary result", results)
	}
	if secondary.calls != 0 {
		t.Error("secondary called although primary succeeded")
	}
}

func TestFallbackOnRecoverableErrors(t *testing.T) {
	recoverableErrs := []error{
		&completion.Error{Kind: completion.KindRateLimited, Err: errors.New("429")},
		&completion.Error{Kind: completion.KindUnauthorized, Err: errors.New("401")},
		&completion.Error{Kind: completion.KindServerError, Err: errors.New("503")},
		ErrUnparsable,
		completion.ErrNotConfigured,
		context.DeadlineExceeded,
	}

	for _, upstream := range recoverableErrs {
		primary := &stubRetriever{err: upstream}
		secondary := &stubRetriever{results: []types.Professor{{Name: "Scored"}}}
		r := NewFallbackRetriever(primary, secondary)

		results, err := r.Retrieve(context.Background(), "machine learning", nil)
		if err != nil {
			t.Errorf("upstream %v: Retrieve returned error %v, want fallback", upstream, err)
			continue
		}
		if len(results) != 1 || results[0].Name != "Scored" {
			t.Errorf("upstream %v: results = %v, want secondary result", upstream, results)
		}
	}
}

func TestFallbackDoesNotMaskUnexpectedErrors(t *testing.T) {
	boom := errors.New("corpus index corrupted")
	primary := &stubRetriever{err: boom}
	secondary := &stubRetriever{results: []types.Professor{{Name: "Scored"}}}
	r := NewFallbackRetriever(primary, secondary)

	_, err := r.Retrieve(context.Background(), "machine learning", nil)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if secondary.calls != 0 {
		t.Error("secondary called for an unexpected error")
	}
}

func TestFallbackNilPrimary(t *testing.T) {
	secondary := &stubRetriever{results: []types.Professor{{Name: "Scored"}}}
	r := NewFallbackRetriever(nil, secondary)

	results, err := r.Retrieve(context.Background(), "machine learning", nil)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Scored" {
		t.Errorf("results = %v, want secondary result", results)
	}
}
