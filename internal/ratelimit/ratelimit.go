// Package ratelimit applies per-provider request pacing so one busy page
// cannot burn through a vendor quota. Unconfigured providers pass through.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// PerProvider holds one token-bucket limiter per configured provider.
type PerProvider struct {
	mu       sync.Mutex
	rps      map[string]float64
	limiters map[string]*rate.Limiter
}

// New builds limiters from a provider → requests-per-second map. A nil or
// empty map disables limiting entirely.
func New(rps map[string]float64) *PerProvider {
	return &PerProvider{
		rps:      rps,
		limiters: make(map[string]*rate.Limiter, len(rps)),
	}
}

// Wait blocks until the provider's limiter grants a token or ctx is done.
// Providers without a configured rate return immediately.
func (p *PerProvider) Wait(ctx context.Context, provider string) error {
	if p == nil {
		return nil
	}
	lim := p.limiter(provider)
	if lim == nil {
		return nil
	}
	return lim.Wait(ctx)
}

// Limited reports whether the provider has a configured rate.
func (p *PerProvider) Limited(provider string) bool {
	if p == nil {
		return false
	}
	_, ok := p.rps[provider]
	return ok
}

func (p *PerProvider) limiter(provider string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if lim, ok := p.limiters[provider]; ok {
		return lim
	}
	rps, ok := p.rps[provider]
	if !ok || rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	p.limiters[provider] = lim
	return lim
}
