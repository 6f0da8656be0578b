// Package venturekit is the LLM core behind the founder tooling: a provider
// registry, a client factory, template filling, model discovery with caching,
// and one front door (Service.GetResponse) that ties them together with
// logging, metrics, rate limiting, and an optional invocation log.
package venturekit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/venturekit/venturekit/internal/logging"
	"github.com/venturekit/venturekit/internal/metrics"
	"github.com/venturekit/venturekit/internal/ratelimit"
	"github.com/venturekit/venturekit/internal/requestlog"
	"github.com/venturekit/venturekit/llm"
	"github.com/venturekit/venturekit/prompt"
)

// Service is the high-level entry point. Construct one with New and share it;
// all methods are safe for concurrent use.
type Service struct {
	registry *llm.Registry
	factory  *llm.Factory
	models   *llm.ModelCache
	secrets  llm.Secrets
	limits   *ratelimit.PerProvider
	requests requestlog.Writer
	log      *slog.Logger
	http     *http.Client

	cacheOpts []llm.ModelCacheOption
}

// Option customises a Service.
type Option func(*Service)

// WithRateLimits installs per-provider request pacing (provider → req/s).
func WithRateLimits(rps map[string]float64) Option {
	return func(s *Service) { s.limits = ratelimit.New(rps) }
}

// WithRequestLog installs a persistent invocation log.
func WithRequestLog(w requestlog.Writer) Option {
	return func(s *Service) { s.requests = w }
}

// WithLogger overrides the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithHTTPClient overrides the transport used by HTTP-backed provider clients
// and by model discovery. Tests point it at httptest servers.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.http = c }
}

// WithModelCacheOptions forwards options to the model cache (TTL, clock).
func WithModelCacheOptions(opts ...llm.ModelCacheOption) Option {
	return func(s *Service) { s.cacheOpts = append(s.cacheOpts, opts...) }
}

// New assembles a Service over a registry and secret store.
func New(registry *llm.Registry, secrets llm.Secrets, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		secrets:  secrets,
		requests: requestlog.NoopWriter{},
		log:      logging.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.factory = llm.NewFactory(registry, secrets)
	discoverer := llm.NewDiscoverer(secrets, s.http)
	s.models = llm.NewModelCache(registry, discoverer.Discover,
		append([]llm.ModelCacheOption{llm.WithCacheLogger(s.log)}, s.cacheOpts...)...)
	return s
}

// RequestOptions tune a single GetResponse call.
type RequestOptions struct {
	Temperature *float64
	MaxTokens   *int
	Region      string
}

// Providers returns the registered provider IDs, sorted.
func (s *Service) Providers() []string { return s.registry.List() }

// Describe exposes the registry lookup.
func (s *Service) Describe(providerID string) (llm.ProviderDescriptor, bool) {
	return s.registry.Describe(providerID)
}

// ListModels returns the models a provider currently exposes, served from the
// cache. Unknown providers yield nil; discovery failures yield the provider's
// default model.
func (s *Service) ListModels(ctx context.Context, providerID string) []string {
	return s.models.ListModels(ctx, providerID)
}

// GetResponse fills templateText with vars, builds a client for providerID
// (modelName overrides the provider default when non-empty), and performs one
// synchronous call. Every failure is one of the package's typed errors; the
// call is recorded in metrics and the invocation log either way.
func (s *Service) GetResponse(ctx context.Context, templateText string, shape prompt.Shape, vars map[string]string, providerID, modelName string, opts RequestOptions) (string, error) {
	traceID := logging.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = logging.WithTraceID(ctx, traceID)
	}
	log := s.log.With("trace_id", traceID, "provider", providerID)

	start := time.Now()
	model := modelName
	finish := func(status, errMsg string) {
		elapsed := time.Since(start)
		metrics.ResponsesTotal.WithLabelValues(providerID, model, status).Inc()
		metrics.ResponseDuration.WithLabelValues(providerID, model).Observe(elapsed.Seconds())
		_ = s.requests.Write(ctx, requestlog.Entry{
			TraceID:      traceID,
			Provider:     providerID,
			Model:        model,
			Shape:        string(shape),
			Status:       status,
			ErrorMessage: errMsg,
			LatencyMS:    elapsed.Milliseconds(),
			CreatedAt:    time.Now().UTC(),
		})
	}

	filled, err := prompt.Fill(templateText, shape, vars)
	if err != nil {
		finish(metrics.StatusTemplateFailed, err.Error())
		log.Warn("template fill failed", "error", err)
		return "", err
	}

	client, err := s.factory.Build(providerID, modelName, llm.BuildOptions{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Region:      opts.Region,
		HTTPClient:  s.http,
	})
	if err != nil {
		finish(statusFor(err), err.Error())
		log.Warn("client construction failed", "error", err)
		return "", err
	}
	model = client.Model()

	if s.limits.Limited(providerID) {
		metrics.RateLimitWaits.WithLabelValues(providerID).Inc()
		if err := s.limits.Wait(ctx, providerID); err != nil {
			ierr := &llm.InvocationError{Provider: providerID, Err: err}
			finish(metrics.StatusInvocationFailed, ierr.Error())
			return "", ierr
		}
	}

	log.Info("invoking provider", "model", model, "shape", string(shape))
	text, err := client.Complete(ctx, messagesFor(filled))
	if err != nil {
		finish(metrics.StatusInvocationFailed, err.Error())
		log.Error("provider invocation failed", "model", model, "error", err)
		return "", err
	}

	finish(metrics.StatusSuccess, "")
	log.Info("provider responded", "model", model, "latency_ms", time.Since(start).Milliseconds())
	return text, nil
}

// messagesFor converts a filled template into provider messages. Plain text
// becomes a single user turn.
func messagesFor(filled prompt.Filled) []llm.Message {
	if filled.Shape == prompt.Chat {
		msgs := make([]llm.Message, 0, len(filled.Turns))
		for _, t := range filled.Turns {
			msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
		}
		return msgs
	}
	return []llm.Message{{Role: llm.RoleUser, Content: filled.Text}}
}

func statusFor(err error) string {
	var unsupported *llm.UnsupportedProviderError
	var missing *llm.MissingCredentialError
	var construction *llm.ClientConstructionError
	switch {
	case errors.As(err, &unsupported):
		return metrics.StatusUnsupported
	case errors.As(err, &missing):
		return metrics.StatusMissingCredential
	case errors.As(err, &construction):
		return metrics.StatusConstructionFailed
	default:
		return metrics.StatusInvocationFailed
	}
}
