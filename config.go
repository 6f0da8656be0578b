package venturekit

import (
	"fmt"
	"strings"

	"github.com/venturekit/venturekit/internal/requestlog"
	"github.com/venturekit/venturekit/llm"
)

// Config is the file-backed service configuration. Every field is optional;
// the zero value runs the built-in provider registry with no rate limits and
// no invocation log.
type Config struct {
	// Listen is the serve address, e.g. ":8080".
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is debug/info/warn/error; LogFormat is json or text.
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Providers overrides entries of the built-in registry by ID.
	Providers []ProviderOverride `yaml:"providers" json:"providers"`

	// RateLimits maps provider ID to allowed requests per second.
	RateLimits map[string]float64 `yaml:"rate_limits" json:"rate_limits"`

	// RequestLog configures the persistent invocation log.
	RequestLog RequestLogConfig `yaml:"request_log" json:"request_log"`
}

// ProviderOverride adjusts one registry descriptor. Only non-zero fields are
// applied; Disabled removes the provider entirely.
type ProviderOverride struct {
	ID               string `yaml:"id" json:"id"`
	DefaultModel     string `yaml:"default_model" json:"default_model"`
	BaseURL          string `yaml:"base_url" json:"base_url"`
	BaseURLConfigKey string `yaml:"base_url_config_key" json:"base_url_config_key"`
	StripModelPrefix *bool  `yaml:"strip_model_prefix" json:"strip_model_prefix"`
	Disabled         bool   `yaml:"disabled" json:"disabled"`
}

// RequestLogConfig selects the invocation log backend. Driver is "" (off),
// "sqlite", or "postgres".
type RequestLogConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Validate checks the configuration for inconsistencies it can catch without
// touching the network.
func (c *Config) Validate() error {
	known := make(map[string]struct{})
	for _, d := range llm.Defaults() {
		known[d.ID] = struct{}{}
	}
	seen := make(map[string]struct{})
	for i, ov := range c.Providers {
		id := strings.ToLower(strings.TrimSpace(ov.ID))
		if id == "" {
			return fmt.Errorf("providers[%d]: id is required", i)
		}
		if _, ok := known[id]; !ok {
			return fmt.Errorf("providers[%d]: unknown provider %q", i, ov.ID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("providers[%d]: duplicate override for %q", i, id)
		}
		seen[id] = struct{}{}
	}
	for id, rps := range c.RateLimits {
		if rps < 0 {
			return fmt.Errorf("rate_limits[%s]: negative rate %v", id, rps)
		}
	}
	switch c.RequestLog.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("request_log: unknown driver %q", c.RequestLog.Driver)
	}
	if c.RequestLog.Driver == "postgres" && strings.TrimSpace(c.RequestLog.DSN) == "" {
		return fmt.Errorf("request_log: postgres requires a dsn")
	}
	return nil
}

// BuildRegistry applies the config's provider overrides to the built-in
// registry.
func (c *Config) BuildRegistry() (*llm.Registry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	overrides := make(map[string]ProviderOverride, len(c.Providers))
	for _, ov := range c.Providers {
		overrides[strings.ToLower(strings.TrimSpace(ov.ID))] = ov
	}

	var descriptors []llm.ProviderDescriptor
	for _, desc := range llm.Defaults() {
		ov, ok := overrides[desc.ID]
		if !ok {
			descriptors = append(descriptors, desc)
			continue
		}
		if ov.Disabled {
			continue
		}
		if ov.DefaultModel != "" {
			desc.DefaultModel = ov.DefaultModel
		}
		if ov.BaseURL != "" {
			desc.BaseURL = ov.BaseURL
		}
		if ov.BaseURLConfigKey != "" {
			desc.BaseURLConfigKey = ov.BaseURLConfigKey
		}
		if ov.StripModelPrefix != nil {
			desc.StripModelPrefix = *ov.StripModelPrefix
		}
		descriptors = append(descriptors, desc)
	}
	return llm.NewRegistry(descriptors...), nil
}

// NewRequestLog opens the configured invocation log backend. When no driver
// is set it returns a no-op writer and a nil close function.
func (c *Config) NewRequestLog() (requestlog.Writer, func() error, error) {
	switch c.RequestLog.Driver {
	case "sqlite":
		w, err := requestlog.NewSQLiteWriter(c.RequestLog.DSN)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Close, nil
	case "postgres":
		w, err := requestlog.NewPostgresWriter(c.RequestLog.DSN)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Close, nil
	default:
		return requestlog.NoopWriter{}, nil, nil
	}
}
