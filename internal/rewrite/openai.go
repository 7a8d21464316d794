package rewrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/i474232898/morning-briefing/internal/common"
)

const systemPrompt = "You write short, friendly morning greeting messages for a chat channel. " +
	"Use only the facts you are given and keep forecast times and news titles accurate."

// Options configures the OpenAI rewriter.
type Options struct {
	APIKey      string
	BaseURL     string // empty keeps the library default
	Model       string
	Temperature float32
	HTTPClient  *http.Client
}

// OpenAIRewriter turns a facts prompt into prose using chat completions.
type OpenAIRewriter struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIRewriter creates a rewriter. The HTTP client's timeout bounds each call.
func NewOpenAIRewriter(opts Options) *OpenAIRewriter {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	model := opts.Model
	if model == "" {
		model = openai.GPT4
	}

	return &OpenAIRewriter{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: opts.Temperature,
	}
}

// Rewrite returns the generated prose. Every failure, including an empty
// completion, wraps common.ErrGenerationFailed.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: openai api error (%d): %s", common.ErrGenerationFailed, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", common.ErrGenerationFailed)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", common.ErrGenerationFailed)
	}
	return text, nil
}
