// Package llm implements the provider abstraction layer: a registry of
// provider descriptors, credential resolution, a client factory, and
// time-bounded model discovery.
//
// Calling code asks for "a response for this prompt" without knowing which
// vendor is behind it. Each provider is described by a ProviderDescriptor;
// adding a provider is a data addition, not a new code branch.
package llm

import (
	"sort"
	"strings"
)

// Kind identifies the wire protocol a provider speaks. It drives model
// discovery dispatch; client construction goes through the descriptor's
// constructor reference.
type Kind int

// Provider protocol kinds.
const (
	KindUnsupported Kind = iota
	KindOpenAI           // OpenAI and OpenAI-compatible chat-completion APIs
	KindAnthropic
	KindGoogle
	KindOllama
	KindBedrock
)

// Constructor builds a ready-to-use chat client from assembled options.
type Constructor func(ClientConfig) (Client, error)

// ProviderDescriptor is the static record describing how to authenticate and
// construct a client for one provider. A descriptor with a nil New is known
// but not yet implemented and must never be instantiated.
type ProviderDescriptor struct {
	// ID is the lower-cased unique provider identifier.
	ID string

	// Kind selects the discovery protocol.
	Kind Kind

	// New constructs the chat client. Nil marks the provider unsupported.
	New Constructor

	// CredentialKey names the secret holding the API key. Empty means no
	// credential is required (local runtimes, ambient AWS chain).
	CredentialKey string

	// DefaultModel is used when the caller gives no model override, and as
	// the discovery fallback.
	DefaultModel string

	// AuthHeader is the header the vendor expects the credential in
	// ("Authorization" implies a Bearer prefix).
	AuthHeader string

	// BaseURL is a fixed endpoint override (routed gateways). Empty means
	// the client's default endpoint.
	BaseURL string

	// BaseURLConfigKey names a configuration key holding a base URL
	// override, looked up only when BaseURL is empty.
	BaseURLConfigKey string

	// StripModelPrefix controls routed-provider model handling: when true,
	// a "vendor/model" identifier is passed to the underlying client
	// without its vendor prefix. OpenRouter routes on the prefix, so its
	// built-in row keeps it.
	StripModelPrefix bool

	// DiscoveryFilter, when set, keeps only discovered model IDs containing
	// the substring (OpenAI returns embeddings, TTS, etc. in one list).
	DiscoveryFilter string

	// Notes is free text shown in provider listings.
	Notes string
}

// Supported reports whether the descriptor can be instantiated.
func (d ProviderDescriptor) Supported() bool { return d.New != nil }

// Registry is an immutable lookup table of provider descriptors. Construct it
// once at startup and inject it into the factory and model cache; lookups are
// case-insensitive on the provider ID.
type Registry struct {
	descriptors map[string]ProviderDescriptor
}

// NewRegistry builds a registry from the given descriptors. Later duplicates
// of the same ID win, which lets configuration overrides replace built-ins.
func NewRegistry(descriptors ...ProviderDescriptor) *Registry {
	m := make(map[string]ProviderDescriptor, len(descriptors))
	for _, d := range descriptors {
		d.ID = strings.ToLower(d.ID)
		m[d.ID] = d
	}
	return &Registry{descriptors: m}
}

// Describe returns the descriptor for the given provider ID.
func (r *Registry) Describe(providerID string) (ProviderDescriptor, bool) {
	d, ok := r.descriptors[strings.ToLower(providerID)]
	return d, ok
}

// List returns all registered provider IDs, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Defaults returns the built-in provider table.
func Defaults() []ProviderDescriptor {
	return []ProviderDescriptor{
		{
			ID:              "openai",
			Kind:            KindOpenAI,
			New:             NewOpenAIClient,
			CredentialKey:   "OPENAI_API_KEY",
			DefaultModel:    "gpt-3.5-turbo",
			AuthHeader:      "Authorization",
			DiscoveryFilter: "gpt",
		},
		{
			ID:            "anthropic",
			Kind:          KindAnthropic,
			New:           NewAnthropicClient,
			CredentialKey: "ANTHROPIC_API_KEY",
			DefaultModel:  "claude-3-haiku-20240307",
			AuthHeader:    "x-api-key",
		},
		{
			ID:            "openrouter",
			Kind:          KindOpenAI,
			New:           NewOpenAIClient,
			CredentialKey: "OPENROUTER_API_KEY",
			DefaultModel:  "openai/gpt-3.5-turbo",
			AuthHeader:    "Authorization",
			BaseURL:       "https://openrouter.ai/api/v1",
			// The gateway routes on the vendor prefix; the full model
			// string goes over the wire.
			StripModelPrefix: false,
			Notes:            "OpenAI-compatible router; model IDs carry a vendor prefix",
		},
		{
			ID:            "google",
			Kind:          KindGoogle,
			New:           NewGoogleClient,
			CredentialKey: "GOOGLE_API_KEY",
			DefaultModel:  "gemini-pro",
			AuthHeader:    "x-goog-api-key",
		},
		{
			ID:            "groq",
			Kind:          KindOpenAI,
			New:           NewOpenAIClient,
			CredentialKey: "GROQ_API_KEY",
			DefaultModel:  "mixtral-8x7b-32768",
			AuthHeader:    "Authorization",
			BaseURL:       "https://api.groq.com/openai/v1",
		},
		{
			ID:               "ollama",
			Kind:             KindOllama,
			New:              NewOllamaClient,
			DefaultModel:     "llama2",
			BaseURLConfigKey: "OLLAMA_ENDPOINT",
			Notes:            "local runtime; set OLLAMA_ENDPOINT when not on localhost:11434",
		},
		{
			ID:           "bedrock",
			Kind:         KindBedrock,
			New:          NewBedrockClient,
			DefaultModel: "anthropic.claude-3-haiku-20240307-v1:0",
			Notes:        "authenticates via the AWS default credential chain",
		},
		{
			ID:            "requesty",
			Kind:          KindUnsupported,
			CredentialKey: "requesty_API_KEY",
			DefaultModel:  "requesty-default",
			Notes:         "integration not yet implemented",
		},
	}
}

// DefaultRegistry returns a registry populated with the built-in table.
func DefaultRegistry() *Registry {
	return NewRegistry(Defaults()...)
}
