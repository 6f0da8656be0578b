package llm

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/venturekit/venturekit/internal/metrics"
)

// DefaultModelCacheTTL bounds how long a discovered model list is served
// before the next read triggers a refresh.
const DefaultModelCacheTTL = time.Hour

// DiscoverFunc fetches a provider's current model list.
type DiscoverFunc func(ctx context.Context, desc ProviderDescriptor) ([]string, error)

type modelEntry struct {
	models    []string
	fetchedAt time.Time
}

// ModelCache serves per-provider model lists with a time-to-live window.
//
// A hit inside the window returns the cached list. A miss or expiry runs
// discovery; success stores a deduplicated sorted list by replacing the whole
// entry (readers see either the old list or the new one, never a mix).
// Any discovery failure is absorbed into a single-element fallback holding
// the provider's default model, and is never cached, so the next read
// retries discovery.
type ModelCache struct {
	registry *Registry
	discover DiscoverFunc
	ttl      time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu      sync.RWMutex
	entries map[string]modelEntry
}

// ModelCacheOption customises a ModelCache.
type ModelCacheOption func(*ModelCache)

// WithTTL overrides the default one-hour window.
func WithTTL(ttl time.Duration) ModelCacheOption {
	return func(c *ModelCache) { c.ttl = ttl }
}

// WithClock overrides the time source. Tests use it to force expiry.
func WithClock(now func() time.Time) ModelCacheOption {
	return func(c *ModelCache) { c.now = now }
}

// WithCacheLogger overrides the logger used for fallback notices.
func WithCacheLogger(log *slog.Logger) ModelCacheOption {
	return func(c *ModelCache) { c.log = log }
}

// NewModelCache builds a cache over the given registry and discovery
// function.
func NewModelCache(registry *Registry, discover DiscoverFunc, opts ...ModelCacheOption) *ModelCache {
	c := &ModelCache{
		registry: registry,
		discover: discover,
		ttl:      DefaultModelCacheTTL,
		now:      time.Now,
		log:      slog.Default(),
		entries:  make(map[string]modelEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListModels returns the models providerID currently exposes. It never
// returns an error and never panics past its boundary: unknown providers
// yield nil, and discovery failure yields the descriptor's default model.
func (c *ModelCache) ListModels(ctx context.Context, providerID string) []string {
	desc, ok := c.registry.Describe(providerID)
	if !ok {
		return nil
	}

	if models, ok := c.lookup(desc.ID); ok {
		return models
	}

	discovered, err := c.discover(ctx, desc)
	models := normalizeModels(discovered)
	if err != nil || len(models) == 0 {
		metrics.DiscoveryFallbacks.WithLabelValues(desc.ID).Inc()
		c.log.Info("model discovery fell back to default",
			"provider", desc.ID,
			"error", errText(err),
		)
		// Not cached: the next call retries discovery instead of
		// pinning a stale failure.
		return []string{desc.DefaultModel}
	}

	c.store(desc.ID, models)
	return models
}

// lookup returns a copy of a live entry.
func (c *ModelCache) lookup(id string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return append([]string(nil), entry.models...), true
}

// store replaces the provider's entry wholesale.
func (c *ModelCache) store(id string, models []string) {
	c.mu.Lock()
	c.entries[id] = modelEntry{models: models, fetchedAt: c.now()}
	c.mu.Unlock()
}

// normalizeModels dedupes, drops empties, and sorts.
func normalizeModels(models []string) []string {
	seen := make(map[string]struct{}, len(models))
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func errText(err error) string {
	if err == nil {
		return "empty model list"
	}
	return err.Error()
}
