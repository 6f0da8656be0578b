package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIClient serves OpenAI itself and every OpenAI-compatible provider
// (OpenRouter, Groq) by pointing the official SDK at a different base URL.
type openAIClient struct {
	provider    string
	model       string
	client      openai.Client
	temperature *float64
	maxTokens   *int
}

// NewOpenAIClient constructs a client for an OpenAI-compatible chat API.
func NewOpenAIClient(cfg ClientConfig) (Client, error) {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &openAIClient{
		provider:    cfg.Provider,
		model:       cfg.Model,
		client:      openai.NewClient(opts...),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *openAIClient) Provider() string { return c.provider }
func (c *openAIClient) Model() string    { return c.model }

// Complete sends a single chat completion request and returns the first
// choice's text.
func (c *openAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildOpenAIMessages(messages),
	}
	if c.temperature != nil {
		params.Temperature = openai.Float(*c.temperature)
	}
	if c.maxTokens != nil {
		params.MaxTokens = openai.Int(int64(*c.maxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}
	if len(completion.Choices) == 0 {
		return "", &InvocationError{Provider: c.provider, Err: errors.New("response contained no choices")}
	}
	return completion.Choices[0].Message.Content, nil
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
