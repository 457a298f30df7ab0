// Package completion abstracts the text-completion service consumed by
// retrieval and enrichment. Callers depend on the Client interface and
// the typed Error taxonomy, never on a transport SDK.
package completion

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies completion-service failures so callers can choose
// fallback behavior without inspecting transport details.
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindUnauthorized
	KindServerError
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnauthorized:
		return "unauthorized"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Error is a classified completion-service failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
// Non-completion errors report KindUnknown.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// ErrNotConfigured is returned when no API key is configured.
var ErrNotConfigured = errors.New("completion service not configured")

// Request describes a single completion call.
type Request struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Client defines the interface contract for completion services.
type Client interface {
	// Complete returns the completion text for the request. Failures
	// are reported as *Error when the upstream status is known.
	Complete(ctx context.Context, req Request) (string, error)
	// ModelName returns the default model identifier, for health output.
	ModelName() string
}
