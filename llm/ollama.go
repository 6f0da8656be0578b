package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaClient talks to a local Ollama server over its OpenAI-compatible
// chat endpoint. No API key is required.
type ollamaClient struct {
	provider    string
	model       string
	baseURL     string
	temperature *float64
	maxTokens   *int
	httpClient  *http.Client
}

// NewOllamaClient constructs a client for a local Ollama runtime.
func NewOllamaClient(cfg ClientConfig) (Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &ollamaClient{
		provider:    cfg.Provider,
		model:       cfg.Model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  cfg.httpClient(),
	}, nil
}

func (c *ollamaClient) Provider() string { return c.provider }
func (c *ollamaClient) Model() string    { return c.model }

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model       string              `json:"model"`
	Messages    []ollamaChatMessage `json:"messages"`
	Temperature *float64            `json:"temperature,omitempty"`
	MaxTokens   *int                `json:"max_tokens,omitempty"`
}

type ollamaResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type ollamaErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends a chat completion request to the local runtime.
func (c *ollamaClient) Complete(ctx context.Context, messages []Message) (string, error) {
	turns := make([]ollamaChatMessage, len(messages))
	for i, msg := range messages {
		turns[i] = ollamaChatMessage{Role: msg.Role, Content: msg.Content}
	}

	body, err := json.Marshal(ollamaRequest{
		Model:       c.model,
		Messages:    turns,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ollamaErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)}
		}
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("response contained no choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}
