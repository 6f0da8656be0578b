package llm

import "os"

// Secrets is the read-only configuration surface credentials and base URL
// overrides are resolved from. Backed by the process environment in
// production and a plain map in tests.
type Secrets interface {
	Get(key string) (string, bool)
}

// EnvSecrets resolves keys from the process environment.
type EnvSecrets struct{}

// Get implements Secrets.
func (EnvSecrets) Get(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if v == "" {
		return "", false
	}
	return v, ok
}

// StaticSecrets is a fixed in-memory secret store.
type StaticSecrets map[string]string

// Get implements Secrets.
func (s StaticSecrets) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok && v != ""
}

// ResolveCredential looks up the descriptor's credential. A descriptor with
// no CredentialKey needs no credential and resolves to the empty string; a
// named key missing from secrets is a MissingCredentialError.
func ResolveCredential(desc ProviderDescriptor, secrets Secrets) (string, error) {
	if desc.CredentialKey == "" {
		return "", nil
	}
	v, ok := secrets.Get(desc.CredentialKey)
	if !ok {
		return "", &MissingCredentialError{Provider: desc.ID, Key: desc.CredentialKey}
	}
	return v, nil
}
