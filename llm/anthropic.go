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

const anthropicVersion = "2023-06-01"

// defaultAnthropicMaxTokens applies when the caller sets no limit; the
// messages API requires max_tokens.
const defaultAnthropicMaxTokens = 1024

type anthropicClient struct {
	provider    string
	model       string
	apiKey      string
	authHeader  string
	baseURL     string
	temperature *float64
	maxTokens   *int
	httpClient  *http.Client
}

// NewAnthropicClient constructs a client for the Anthropic messages API.
func NewAnthropicClient(cfg ClientConfig) (Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	authHeader := cfg.AuthHeader
	if authHeader == "" {
		authHeader = "x-api-key"
	}
	return &anthropicClient{
		provider:    cfg.Provider,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		authHeader:  authHeader,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  cfg.httpClient(),
	}, nil
}

func (c *anthropicClient) Provider() string { return c.provider }
func (c *anthropicClient) Model() string    { return c.model }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a messages API request. System turns are lifted into the
// top-level system field as the API requires.
func (c *anthropicClient) Complete(ctx context.Context, messages []Message) (string, error) {
	var systemParts []string
	var turns []anthropicMessage
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		turns = append(turns, anthropicMessage{Role: msg.Role, Content: msg.Content})
	}

	maxTokens := defaultAnthropicMaxTokens
	if c.maxTokens != nil {
		maxTokens = *c.maxTokens
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      strings.Join(systemParts, "\n"),
		Messages:    turns,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.authHeader, c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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
		var errResp anthropicErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)}
		}
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
