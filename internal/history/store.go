// Package history persists search outcomes for operational review.
// Recording is best-effort everywhere: a history failure must never
// affect a search response.
package history

import (
	"context"
	"time"
)

// Search is one recorded search outcome.
type Search struct {
	ID          string
	Query       string
	Valid       bool
	Confidence  float64
	ResultCount int
	DurationMs  int64
	CreatedAt   time.Time
}

// Store records and lists search history.
type Store interface {
	Record(ctx context.Context, s Search) error
	Recent(ctx context.Context, limit int) ([]Search, error)
	Close() error
}

// NopStore is used when history is disabled.
type NopStore struct{}

// Record is a no-op when history is disabled.
func (NopStore) Record(ctx context.Context, s Search) error { return nil }

// Recent returns no entries when history is disabled.
func (NopStore) Recent(ctx context.Context, limit int) ([]Search, error) {
	return []Search{}, nil
}

// Close is a no-op when history is disabled.
func (NopStore) Close() error { return nil }
