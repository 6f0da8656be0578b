package llm

import (
	"context"
	"net/http"
)

// Message role constants shared across providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversation turn sent to a provider.
type Message struct {
	Role    string
	Content string
}

// Client is a constructed chat client bound to one provider and one model.
// Complete performs a single synchronous call and returns the text payload;
// every failure is surfaced as an *InvocationError.
type Client interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ClientConfig carries the options the factory assembles for a constructor.
type ClientConfig struct {
	Provider string
	// Model is the identifier the client sends over the wire. For routed
	// providers this may differ from the caller's model string (see
	// ProviderDescriptor.StripModelPrefix).
	Model      string
	APIKey     string
	AuthHeader string
	BaseURL    string
	// Region is consumed by the Bedrock constructor only.
	Region string

	Temperature *float64
	MaxTokens   *int

	// HTTPClient overrides the transport; nil uses http.DefaultClient
	// semantics. Tests point it at httptest servers.
	HTTPClient *http.Client
}

func (c ClientConfig) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}
