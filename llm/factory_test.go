package llm

import (
	"context"
	"errors"
	"testing"
)

// recordingClient remembers the config it was built from.
type recordingClient struct {
	cfg ClientConfig
}

func (c *recordingClient) Provider() string { return c.cfg.Provider }
func (c *recordingClient) Model() string    { return c.cfg.Model }
func (c *recordingClient) Complete(_ context.Context, _ []Message) (string, error) {
	return "", nil
}

func recordingDescriptor(id string) ProviderDescriptor {
	return ProviderDescriptor{
		ID:            id,
		Kind:          KindOpenAI,
		CredentialKey: "TEST_API_KEY",
		DefaultModel:  "default-model",
		AuthHeader:    "Authorization",
		New: func(cfg ClientConfig) (Client, error) {
			return &recordingClient{cfg: cfg}, nil
		},
	}
}

func TestBuildUsesDefaultModel(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	client, err := factory.Build("test", "", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if client.Model() != "default-model" {
		t.Errorf("model = %q, want the descriptor default", client.Model())
	}
}

func TestBuildModelOverride(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	client, err := factory.Build("test", "other-model", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if client.Model() != "other-model" {
		t.Errorf("model = %q, want %q", client.Model(), "other-model")
	}
}

func TestBuildUnknownProvider(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	_, err := factory.Build("nope", "", BuildOptions{})
	var unsupported *UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedProviderError, got %v", err)
	}
	if unsupported.Provider != "nope" {
		t.Errorf("error names provider %q", unsupported.Provider)
	}
}

func TestBuildConstructorlessProvider(t *testing.T) {
	desc := recordingDescriptor("stub")
	desc.New = nil
	registry := NewRegistry(desc)
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	_, err := factory.Build("stub", "", BuildOptions{})
	var unsupported *UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedProviderError, got %v", err)
	}
}

func TestBuildMissingCredential(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{})

	_, err := factory.Build("test", "", BuildOptions{})
	var missing *MissingCredentialError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingCredentialError, got %v", err)
	}
	if missing.Key != "TEST_API_KEY" {
		t.Errorf("error names key %q", missing.Key)
	}
}

func TestBuildCredentialReachesClient(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "sk-test"})

	client, err := factory.Build("test", "", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	rc := client.(*recordingClient)
	if rc.cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", rc.cfg.APIKey)
	}
	if rc.cfg.AuthHeader != "Authorization" {
		t.Errorf("AuthHeader = %q", rc.cfg.AuthHeader)
	}
}

func TestBuildBaseURLFromConfigKey(t *testing.T) {
	desc := recordingDescriptor("test")
	desc.CredentialKey = ""
	desc.BaseURLConfigKey = "TEST_ENDPOINT"
	registry := NewRegistry(desc)
	factory := NewFactory(registry, StaticSecrets{"TEST_ENDPOINT": "http://10.0.0.5:11434"})

	client, err := factory.Build("test", "", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	rc := client.(*recordingClient)
	if rc.cfg.BaseURL != "http://10.0.0.5:11434" {
		t.Errorf("BaseURL = %q", rc.cfg.BaseURL)
	}
}

func TestBuildFixedBaseURLWinsOverConfigKey(t *testing.T) {
	desc := recordingDescriptor("test")
	desc.BaseURL = "https://fixed.example.com/v1"
	desc.BaseURLConfigKey = "TEST_ENDPOINT"
	registry := NewRegistry(desc)
	factory := NewFactory(registry, StaticSecrets{
		"TEST_API_KEY":  "k",
		"TEST_ENDPOINT": "http://ignored",
	})

	client, err := factory.Build("test", "", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	rc := client.(*recordingClient)
	if rc.cfg.BaseURL != "https://fixed.example.com/v1" {
		t.Errorf("BaseURL = %q", rc.cfg.BaseURL)
	}
}

func TestBuildStripsModelPrefixWhenDescriptorOptsIn(t *testing.T) {
	desc := recordingDescriptor("test")
	desc.StripModelPrefix = true
	registry := NewRegistry(desc)
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	client, err := factory.Build("test", "vendor/model-x", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if client.Model() != "model-x" {
		t.Errorf("model = %q, want %q", client.Model(), "model-x")
	}
}

func TestBuildKeepsModelPrefixByDefault(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	client, err := factory.Build("test", "vendor/model-x", BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if client.Model() != "vendor/model-x" {
		t.Errorf("model = %q, want the prefix kept", client.Model())
	}
}

func TestBuildWrapsConstructorError(t *testing.T) {
	cause := errors.New("bad options")
	desc := recordingDescriptor("test")
	desc.New = func(ClientConfig) (Client, error) { return nil, cause }
	registry := NewRegistry(desc)
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	_, err := factory.Build("test", "", BuildOptions{})
	var construction *ClientConstructionError
	if !errors.As(err, &construction) {
		t.Fatalf("expected *ClientConstructionError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("construction error should unwrap to the cause")
	}
}

func TestBuildPassesTuningOptions(t *testing.T) {
	registry := NewRegistry(recordingDescriptor("test"))
	factory := NewFactory(registry, StaticSecrets{"TEST_API_KEY": "k"})

	temp := 0.2
	maxTokens := 512
	client, err := factory.Build("test", "", BuildOptions{Temperature: &temp, MaxTokens: &maxTokens})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	rc := client.(*recordingClient)
	if rc.cfg.Temperature == nil || *rc.cfg.Temperature != 0.2 {
		t.Errorf("Temperature = %v", rc.cfg.Temperature)
	}
	if rc.cfg.MaxTokens == nil || *rc.cfg.MaxTokens != 512 {
		t.Errorf("MaxTokens = %v", rc.cfg.MaxTokens)
	}
}
