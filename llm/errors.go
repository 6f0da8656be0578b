package llm

import "fmt"

// UnsupportedProviderError is returned when a provider ID is absent from the
// registry or its descriptor has no constructor.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported or not yet configured provider: %s", e.Provider)
}

// MissingCredentialError is returned when a descriptor names a credential key
// that is absent from configuration. It carries the key name, never the value.
type MissingCredentialError struct {
	Provider string
	Key      string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("credential %s for provider %s not found in configuration", e.Key, e.Provider)
}

// ClientConstructionError wraps any failure while instantiating a provider
// client. Construction performs no network I/O, so the cause is always local
// (bad options, unusable AWS config, unknown model family).
type ClientConstructionError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ClientConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %s client for model %s: %v", e.Provider, e.Model, e.Err)
}

func (e *ClientConstructionError) Unwrap() error { return e.Err }

// InvocationError wraps any failure from the actual provider call. The core
// does not classify transient vs. permanent causes; callers that retry decide
// for themselves.
type InvocationError struct {
	Provider string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s invocation failed: %v", e.Provider, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
