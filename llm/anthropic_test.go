package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicComplete(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotReq anthropicRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "Hello "},
				{"type": "text", "text": "there"},
			},
		})
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(ClientConfig{
		Provider:   "anthropic",
		Model:      "claude-3-haiku-20240307",
		APIKey:     "sk-ant-test",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	text, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "Be brief."},
		{Role: RoleUser, Content: "Say hello"},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if text != "Hello there" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != anthropicVersion {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotReq.System != "Be brief." {
		t.Errorf("system = %q, want the system turn lifted", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != RoleUser {
		t.Errorf("messages = %+v, want only the user turn", gotReq.Messages)
	}
	if gotReq.MaxTokens != defaultAnthropicMaxTokens {
		t.Errorf("max_tokens = %d, want the default", gotReq.MaxTokens)
	}
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	}))
	defer srv.Close()

	client, _ := NewAnthropicClient(ClientConfig{
		Provider:   "anthropic",
		Model:      "claude-3-haiku-20240307",
		APIKey:     "bad",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	var invocation *InvocationError
	if !errors.As(err, &invocation) {
		t.Fatalf("expected *InvocationError, got %v", err)
	}
	if invocation.Provider != "anthropic" {
		t.Errorf("error names provider %q", invocation.Provider)
	}
	if !strings.Contains(err.Error(), "invalid x-api-key") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}

func TestAnthropicCompleteMaxTokensOverride(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "ok"}},
		})
	}))
	defer srv.Close()

	maxTokens := 64
	temp := 0.1
	client, _ := NewAnthropicClient(ClientConfig{
		Provider:    "anthropic",
		Model:       "claude-3-haiku-20240307",
		APIKey:      "k",
		BaseURL:     srv.URL,
		MaxTokens:   &maxTokens,
		Temperature: &temp,
		HTTPClient:  srv.Client(),
	})

	if _, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if gotReq.MaxTokens != 64 {
		t.Errorf("max_tokens = %d", gotReq.MaxTokens)
	}
	if gotReq.Temperature == nil || *gotReq.Temperature != 0.1 {
		t.Errorf("temperature = %v", gotReq.Temperature)
	}
}
