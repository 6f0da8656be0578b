package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq ollamaRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "local hello"}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(ClientConfig{
		Provider:   "ollama",
		Model:      "llama2",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	text, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "local hello" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("ollama request should carry no credential, got %q", gotAuth)
	}
	if gotReq.Model != "llama2" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestOllamaCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client, _ := NewOllamaClient(ClientConfig{
		Provider:   "ollama",
		Model:      "llama2",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	var invocation *InvocationError
	if !errors.As(err, &invocation) {
		t.Fatalf("expected *InvocationError, got %v", err)
	}
}

func TestOllamaDefaultBaseURL(t *testing.T) {
	client, _ := NewOllamaClient(ClientConfig{Provider: "ollama", Model: "llama2"})
	oc := client.(*ollamaClient)
	if oc.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", oc.baseURL, defaultOllamaBaseURL)
	}
}
