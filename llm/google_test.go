package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleComplete(t *testing.T) {
	var gotPath, gotKey string
	var gotReq googleRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "gemini "}, {"text": "says hi"}},
				}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewGoogleClient(ClientConfig{
		Provider:   "google",
		Model:      "gemini-pro",
		APIKey:     "g-key",
		AuthHeader: "x-goog-api-key",
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
	if text != "gemini says hi" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1beta/models/gemini-pro:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "g-key" {
		t.Errorf("x-goog-api-key = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Role != RoleUser {
		t.Errorf("contents = %+v", gotReq.Contents)
	}
}

func TestGoogleCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"status": "INVALID_ARGUMENT", "message": "API key not valid"},
		})
	}))
	defer srv.Close()

	client, _ := NewGoogleClient(ClientConfig{
		Provider:   "google",
		Model:      "gemini-pro",
		APIKey:     "bad",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	var invocation *InvocationError
	if !errors.As(err, &invocation) {
		t.Fatalf("expected *InvocationError, got %v", err)
	}
}

func TestConvertGoogleContents(t *testing.T) {
	contents := convertGoogleContents([]Message{
		{Role: RoleSystem, Content: "Be brief."},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "more"},
	})
	if len(contents) != 3 {
		t.Fatalf("contents = %+v", contents)
	}
	if contents[0].Role != RoleUser || contents[0].Parts[0].Text != "Be brief.\nhi" {
		t.Errorf("system text should fold into the first user turn, got %+v", contents[0])
	}
	if contents[1].Role != "model" {
		t.Errorf("assistant role should map to model, got %q", contents[1].Role)
	}
	if contents[2].Parts[0].Text != "more" {
		t.Errorf("later user turn should be untouched, got %+v", contents[2])
	}
}

func TestConvertGoogleContentsSystemOnly(t *testing.T) {
	contents := convertGoogleContents([]Message{{Role: RoleSystem, Content: "Be brief."}})
	if len(contents) != 1 || contents[0].Role != RoleUser || contents[0].Parts[0].Text != "Be brief." {
		t.Errorf("contents = %+v", contents)
	}
}
