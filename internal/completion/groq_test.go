package completion

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/researchconnect/profscout/internal/config"
)

// fakeChat is a ChatService returning a canned completion or error.
type fakeChat struct {
	content    string
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (f *fakeChat) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestNewGroqRequiresAPIKey(t *testing.T) {
	_, err := NewGroq(config.CompletionConfig{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestCompleteReturnsTrimmedContent(t *testing.T) {
	chat := &fakeChat{content: "  Alice Zhang is a strong match.  \n"}
	g := &Groq{chat: chat, model: "test-model", timeout: time.Second}

	got, err := g.Complete(context.Background(), Request{
		System: "system prompt",
		Prompt: "user prompt",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Alice Zhang is a strong match." {
		t.Errorf("content = %q, want trimmed text", got)
	}
}

func TestCompleteDefaultsModel(t *testing.T) {
	chat := &fakeChat{content: "ok"}
	g := &Groq{chat: chat, model: "default-model"}

	if _, err := g.Complete(context.Background(), Request{Prompt: "p"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := chat.lastParams.Model.Value; got != "default-model" {
		t.Errorf("model = %q, want default-model", got)
	}

	if _, err := g.Complete(context.Background(), Request{Prompt: "p", Model: "override"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := chat.lastParams.Model.Value; got != "override" {
		t.Errorf("model = %q, want override", got)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	g := &Groq{chat: &emptyChat{}, model: "test-model"}

	_, err := g.Complete(context.Background(), Request{Prompt: "p"})
	if err == nil {
		t.Fatal("expected error for empty choice list")
	}
	if KindOf(err) != KindUnknown {
		t.Errorf("kind = %v, want unknown", KindOf(err))
	}
}

type emptyChat struct{}

func (emptyChat) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	return &openai.ChatCompletion{}, nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: KindRateLimited},
		{name: "unauthorized", status: http.StatusUnauthorized, want: KindUnauthorized},
		{name: "bad gateway", status: http.StatusBadGateway, want: KindServerError},
		{name: "service unavailable", status: http.StatusServiceUnavailable, want: KindServerError},
		{name: "bad request", status: http.StatusBadRequest, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(&openai.Error{StatusCode: tt.status})
			if got := KindOf(err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyNonAPIError(t *testing.T) {
	err := classify(errors.New("dial tcp: connection refused"))

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("classify returned %T, want *Error", err)
	}
	if ce.Kind != KindUnknown {
		t.Errorf("kind = %v, want unknown", ce.Kind)
	}
}
