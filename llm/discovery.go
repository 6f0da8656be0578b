package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// anthropicKnownModels is the curated fallback list; Anthropic's model set
// changes rarely and listing it live would force an API key just to populate
// a dropdown.
var anthropicKnownModels = []string{
	"claude-3-opus-20240229",
	"claude-3-sonnet-20240229",
	"claude-3-haiku-20240307",
	"claude-2.1",
	"claude-2.0",
	"claude-instant-1.2",
}

// bedrockKnownModels lists the Bedrock families the client can invoke.
var bedrockKnownModels = []string{
	"anthropic.claude-3-5-sonnet-20241022-v2:0",
	"anthropic.claude-3-5-haiku-20241022-v1:0",
	"anthropic.claude-3-haiku-20240307-v1:0",
	"amazon.titan-text-express-v1",
	"amazon.titan-text-lite-v1",
}

// Discoverer performs provider-specific live model discovery. It is used by
// ModelCache on cache misses and never called during client construction.
type Discoverer struct {
	secrets    Secrets
	httpClient *http.Client
}

// NewDiscoverer returns a discoverer resolving credentials and base URL
// overrides from secrets. httpClient may be nil.
func NewDiscoverer(secrets Secrets, httpClient *http.Client) *Discoverer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Discoverer{secrets: secrets, httpClient: httpClient}
}

// Discover fetches the provider's current model list. Callers own failure
// handling; ModelCache absorbs every error into the default-model fallback.
func (d *Discoverer) Discover(ctx context.Context, desc ProviderDescriptor) ([]string, error) {
	switch desc.Kind {
	case KindOpenAI:
		return d.discoverOpenAICompatible(ctx, desc)
	case KindOllama:
		return d.discoverOllama(ctx, desc)
	case KindGoogle:
		return d.discoverGoogle(ctx, desc)
	case KindAnthropic:
		return append([]string(nil), anthropicKnownModels...), nil
	case KindBedrock:
		return append([]string(nil), bedrockKnownModels...), nil
	default:
		return nil, fmt.Errorf("no discovery endpoint for provider %s", desc.ID)
	}
}

type openAIModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// discoverOpenAICompatible hits GET {base}/models with bearer auth when a
// credential resolves. OpenRouter serves its catalog unauthenticated, so a
// missing optional credential is not fatal here — only actual HTTP failures.
func (d *Discoverer) discoverOpenAICompatible(ctx context.Context, desc ProviderDescriptor) ([]string, error) {
	base := desc.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	url := strings.TrimRight(base, "/") + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create discovery request: %w", err)
	}
	if key, ok := d.secrets.Get(desc.CredentialKey); ok && desc.CredentialKey != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	body, err := d.fetch(req)
	if err != nil {
		return nil, err
	}

	var list openAIModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse model list: %w", err)
	}

	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		if desc.DiscoveryFilter != "" && !strings.Contains(strings.ToLower(m.ID), desc.DiscoveryFilter) {
			continue
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

type ollamaTagList struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// discoverOllama lists locally pulled models via the runtime's tag endpoint.
func (d *Discoverer) discoverOllama(ctx context.Context, desc ProviderDescriptor) ([]string, error) {
	base := desc.BaseURL
	if base == "" && desc.BaseURLConfigKey != "" {
		if v, ok := d.secrets.Get(desc.BaseURLConfigKey); ok {
			base = v
		}
	}
	if base == "" {
		base = defaultOllamaBaseURL
	}
	url := strings.TrimRight(base, "/") + "/api/tags"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create discovery request: %w", err)
	}

	body, err := d.fetch(req)
	if err != nil {
		return nil, err
	}

	var tags ollamaTagList
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("parse tag list: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

type googleModelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

// discoverGoogle lists Gemini models that support generateContent.
func (d *Discoverer) discoverGoogle(ctx context.Context, desc ProviderDescriptor) ([]string, error) {
	key, err := ResolveCredential(desc, d.secrets)
	if err != nil {
		return nil, err
	}

	base := desc.BaseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	url := strings.TrimRight(base, "/") + "/v1beta/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create discovery request: %w", err)
	}
	req.Header.Set(desc.AuthHeader, key)

	body, err := d.fetch(req)
	if err != nil {
		return nil, err
	}

	var list googleModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse model list: %w", err)
	}

	var names []string
	for _, m := range list.Models {
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				names = append(names, strings.TrimPrefix(m.Name, "models/"))
				break
			}
		}
	}
	return names, nil
}

func (d *Discoverer) fetch(req *http.Request) ([]byte, error) {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discovery request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read discovery response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery request returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
