package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/researchconnect/profscout/internal/config"
)

// Compile-time interface check
var _ Client = (*Groq)(nil)

// ChatService defines the interface for making chat completion calls.
// This abstraction enables testing without calling the real Groq API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Groq implements Client against Groq's OpenAI-compatible API.
type Groq struct {
	chat    ChatService
	model   string
	timeout time.Duration
}

// NewGroq creates a completion client from configuration.
// Returns an error when no API key is configured; callers that can run
// without the semantic tier should treat ErrNotConfigured as non-fatal.
func NewGroq(cfg config.CompletionConfig) (*Groq, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"),
	)

	return &Groq{
		chat:    client.Chat.Completions,
		model:   cfg.MatchModel,
		timeout: time.Duration(cfg.Timeout),
	}, nil
}

// Complete performs one chat completion call. The call inherits the
// request context, so a caller disconnect aborts it, and is bounded by
// the configured timeout so a hung upstream cannot pin a request.
func (g *Groq) Complete(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(openai.ChatModel(model)),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.F(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.F(req.MaxTokens)
	}

	resp, err := g.chat.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindUnknown, Err: errors.New("no choices returned")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the default completion model.
func (g *Groq) ModelName() string {
	return g.model
}

// classify maps SDK errors onto the Error taxonomy using the HTTP
// status carried by the API error type.
func classify(err error) error {
	var apierr *openai.Error
	if !errors.As(err, &apierr) {
		return &Error{Kind: KindUnknown, Err: err}
	}

	switch {
	case apierr.StatusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Err: err}
	case apierr.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Err: err}
	case apierr.StatusCode >= 500:
		return &Error{Kind: KindServerError, Err: err}
	default:
		return &Error{Kind: KindUnknown, Err: fmt.Errorf("status %d: %w", apierr.StatusCode, err)}
	}
}
