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

type googleClient struct {
	provider    string
	model       string
	apiKey      string
	authHeader  string
	baseURL     string
	temperature *float64
	maxTokens   *int
	httpClient  *http.Client
}

// NewGoogleClient constructs a client for the Gemini generateContent API.
func NewGoogleClient(cfg ClientConfig) (Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	authHeader := cfg.AuthHeader
	if authHeader == "" {
		authHeader = "x-goog-api-key"
	}
	return &googleClient{
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

func (c *googleClient) Provider() string { return c.provider }
func (c *googleClient) Model() string    { return c.model }

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role"`
	Parts []googlePart `json:"parts"`
}

type googleGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type googleRequest struct {
	Contents         []googleContent         `json:"contents"`
	GenerationConfig *googleGenerationConfig `json:"generationConfig,omitempty"`
}

type googleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []googlePart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

type googleErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// convertGoogleContents maps conversation turns to Gemini contents. The API
// has no system role; system text is folded into the first user turn, and
// "assistant" becomes "model".
func convertGoogleContents(messages []Message) []googleContent {
	var systemText string
	var contents []googleContent

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if systemText != "" {
				systemText += "\n"
			}
			systemText += msg.Content
			continue
		}

		role := msg.Role
		if role == RoleAssistant {
			role = "model"
		}
		content := msg.Content
		if role == RoleUser && systemText != "" {
			content = systemText + "\n" + content
			systemText = ""
		}
		contents = append(contents, googleContent{
			Role:  role,
			Parts: []googlePart{{Text: content}},
		})
	}

	if systemText != "" {
		contents = append(contents, googleContent{
			Role:  RoleUser,
			Parts: []googlePart{{Text: systemText}},
		})
	}
	return contents
}

// Complete sends a generateContent request and concatenates the first
// candidate's text parts.
func (c *googleClient) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := googleRequest{Contents: convertGoogleContents(messages)}
	if c.temperature != nil || c.maxTokens != nil {
		payload.GenerationConfig = &googleGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &InvocationError{Provider: c.provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.authHeader, c.apiKey)

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
		var errResp googleErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)}
		}
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))}
	}

	var parsed googleResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(parsed.Candidates) == 0 {
		return "", &InvocationError{Provider: c.provider, Err: fmt.Errorf("response contained no candidates")}
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
