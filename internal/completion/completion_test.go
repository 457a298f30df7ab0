package completion

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindRateLimited, "rate_limited"},
		{KindUnauthorized, "unauthorized"},
		{KindServerError, "server_error"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("upstream failure")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct completion error",
			err:  &Error{Kind: KindRateLimited, Err: cause},
			want: KindRateLimited,
		},
		{
			name: "wrapped completion error",
			err:  fmt.Errorf("retrieve: %w", &Error{Kind: KindServerError, Err: cause}),
			want: KindServerError,
		},
		{
			name: "plain error",
			err:  cause,
			want: KindUnknown,
		},
		{
			name: "nil error",
			err:  nil,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Kind: KindServerError, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Error does not unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("Error() returned empty string")
	}
}
