// Package server exposes the LLM core over HTTP: one response endpoint plus
// read-only provider and model listings, health, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/venturekit/venturekit"
	"github.com/venturekit/venturekit/internal/logging"
	"github.com/venturekit/venturekit/llm"
	"github.com/venturekit/venturekit/prompt"
)

// Core is the subset of the service the HTTP layer needs. *venturekit.Service
// satisfies it; tests substitute a stub.
type Core interface {
	Providers() []string
	Describe(providerID string) (llm.ProviderDescriptor, bool)
	ListModels(ctx context.Context, providerID string) []string
	GetResponse(ctx context.Context, templateText string, shape prompt.Shape, vars map[string]string, providerID, modelName string, opts venturekit.RequestOptions) (string, error)
}

// ResponseRequest is the POST /v1/responses body. Shape is "plain" (default)
// or "chat".
type ResponseRequest struct {
	Template    string            `json:"template"`
	Shape       string            `json:"shape"`
	Variables   map[string]string `json:"variables"`
	Provider    string            `json:"provider"`
	Model       string            `json:"model"`
	Temperature *float64          `json:"temperature"`
	MaxTokens   *int              `json:"max_tokens"`
}

// ResponseReply is the success body for POST /v1/responses.
type ResponseReply struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Text     string `json:"text"`
	TraceID  string `json:"trace_id"`
}

type errorReply struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	TraceID string `json:"trace_id,omitempty"`
}

type providerInfo struct {
	ID           string `json:"id"`
	Supported    bool   `json:"supported"`
	DefaultModel string `json:"default_model"`
}

// Handler builds the HTTP router over the core.
func Handler(core Core) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/providers", func(w http.ResponseWriter, r *http.Request) {
			var out []providerInfo
			for _, id := range core.Providers() {
				desc, _ := core.Describe(id)
				out = append(out, providerInfo{
					ID:           desc.ID,
					Supported:    desc.Supported(),
					DefaultModel: desc.DefaultModel,
				})
			}
			writeJSON(w, http.StatusOK, map[string]any{"providers": out})
		})

		r.Get("/models/{provider}", func(w http.ResponseWriter, r *http.Request) {
			providerID := chi.URLParam(r, "provider")
			if _, ok := core.Describe(providerID); !ok {
				writeError(w, r, http.StatusNotFound,
					&llm.UnsupportedProviderError{Provider: providerID})
				return
			}
			models := core.ListModels(r.Context(), providerID)
			writeJSON(w, http.StatusOK, map[string]any{
				"provider": providerID,
				"models":   models,
			})
		})

		r.Post("/responses", func(w http.ResponseWriter, r *http.Request) {
			var req ResponseRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, r, http.StatusBadRequest, errors.New("invalid JSON body"))
				return
			}
			if req.Template == "" || req.Provider == "" {
				writeError(w, r, http.StatusBadRequest, errors.New("template and provider are required"))
				return
			}
			shape := prompt.Plain
			if req.Shape == string(prompt.Chat) {
				shape = prompt.Chat
			}

			text, err := core.GetResponse(r.Context(), req.Template, shape, req.Variables,
				req.Provider, req.Model, venturekit.RequestOptions{
					Temperature: req.Temperature,
					MaxTokens:   req.MaxTokens,
				})
			if err != nil {
				writeError(w, r, statusCode(err), err)
				return
			}

			model := req.Model
			if model == "" {
				if desc, ok := core.Describe(req.Provider); ok {
					model = desc.DefaultModel
				}
			}
			writeJSON(w, http.StatusOK, ResponseReply{
				Provider: req.Provider,
				Model:    model,
				Text:     text,
				TraceID:  logging.TraceIDFromContext(r.Context()),
			})
		})
	})

	return r
}

// statusCode maps the core's typed errors onto HTTP statuses.
func statusCode(err error) int {
	var unsupported *llm.UnsupportedProviderError
	var missing *llm.MissingCredentialError
	var construction *llm.ClientConstructionError
	var invocation *llm.InvocationError
	var missingVar *prompt.MissingVariableError
	var syntax *prompt.SyntaxError
	switch {
	case errors.As(err, &unsupported):
		return http.StatusNotFound
	case errors.As(err, &missing):
		return http.StatusUnauthorized
	case errors.As(err, &missingVar), errors.As(err, &syntax):
		return http.StatusBadRequest
	case errors.As(err, &construction):
		return http.StatusInternalServerError
	case errors.As(err, &invocation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	var unsupported *llm.UnsupportedProviderError
	var missing *llm.MissingCredentialError
	var construction *llm.ClientConstructionError
	var invocation *llm.InvocationError
	var missingVar *prompt.MissingVariableError
	var syntax *prompt.SyntaxError
	switch {
	case errors.As(err, &unsupported):
		return "unsupported_provider"
	case errors.As(err, &missing):
		return "missing_credential"
	case errors.As(err, &missingVar):
		return "missing_variable"
	case errors.As(err, &syntax):
		return "template_syntax"
	case errors.As(err, &construction):
		return "construction_error"
	case errors.As(err, &invocation):
		return "invocation_error"
	default:
		return "internal_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorReply{
		Error:   err.Error(),
		Kind:    errorKind(err),
		TraceID: logging.TraceIDFromContext(r.Context()),
	})
}
