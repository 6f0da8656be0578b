package llm

import (
	"net/http"
	"strings"
)

// BuildOptions are the caller-supplied extras merged into client construction.
type BuildOptions struct {
	Temperature *float64
	MaxTokens   *int
	// Region overrides the AWS region for Bedrock clients.
	Region string
	// HTTPClient overrides the transport for HTTP-backed clients. Tests
	// point it at httptest servers.
	HTTPClient *http.Client
}

// Factory builds ready-to-use chat clients from registry descriptors.
// Construction reads configuration but never touches the network; the first
// network call happens on Client.Complete.
type Factory struct {
	registry *Registry
	secrets  Secrets
}

// NewFactory returns a factory over the given registry and secret store.
func NewFactory(registry *Registry, secrets Secrets) *Factory {
	return &Factory{registry: registry, secrets: secrets}
}

// Build constructs a client for providerID. modelName overrides the
// descriptor's default model when non-empty.
//
// Failure modes are all typed: *UnsupportedProviderError for unknown or
// constructor-less providers, *MissingCredentialError when a required secret
// is absent, *ClientConstructionError for anything the constructor reports.
func (f *Factory) Build(providerID, modelName string, opts BuildOptions) (Client, error) {
	desc, ok := f.registry.Describe(providerID)
	if !ok || !desc.Supported() {
		return nil, &UnsupportedProviderError{Provider: strings.ToLower(providerID)}
	}

	credential, err := ResolveCredential(desc, f.secrets)
	if err != nil {
		return nil, err
	}

	model := modelName
	if model == "" {
		model = desc.DefaultModel
	}

	cfg := ClientConfig{
		Provider:    desc.ID,
		Model:       wireModel(desc, model),
		APIKey:      credential,
		AuthHeader:  desc.AuthHeader,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Region:      resolveRegion(desc, opts, f.secrets),
		HTTPClient:  opts.HTTPClient,
	}

	cfg.BaseURL = desc.BaseURL
	if cfg.BaseURL == "" && desc.BaseURLConfigKey != "" {
		if v, ok := f.secrets.Get(desc.BaseURLConfigKey); ok {
			cfg.BaseURL = v
		}
	}

	client, err := desc.New(cfg)
	if err != nil {
		return nil, &ClientConstructionError{Provider: desc.ID, Model: model, Err: err}
	}
	return client, nil
}

// wireModel applies the routed-provider quirk: when the descriptor opts in,
// a "vendor/model" identifier loses its prefix before reaching the client.
// Whether the prefix is significant is an explicit per-descriptor choice,
// never inferred from the model string.
func wireModel(desc ProviderDescriptor, model string) string {
	if !desc.StripModelPrefix {
		return model
	}
	if i := strings.Index(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

func resolveRegion(desc ProviderDescriptor, opts BuildOptions, secrets Secrets) string {
	if desc.Kind != KindBedrock {
		return ""
	}
	if opts.Region != "" {
		return opts.Region
	}
	if v, ok := secrets.Get("AWS_REGION"); ok {
		return v
	}
	return ""
}

// Describe exposes the underlying registry lookup for callers that hold only
// a factory.
func (f *Factory) Describe(providerID string) (ProviderDescriptor, bool) {
	return f.registry.Describe(providerID)
}
