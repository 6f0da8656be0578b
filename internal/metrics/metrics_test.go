package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestResponsesTotalLabels(t *testing.T) {
	ResponsesTotal.WithLabelValues("openai", "gpt-4", StatusSuccess).Inc()
	ResponsesTotal.WithLabelValues("openai", "gpt-4", StatusInvocationFailed).Add(2)

	family := gatherFamily(t, "venturekit_responses_total")
	if family == nil {
		t.Fatal("venturekit_responses_total not registered")
	}

	found := false
	for _, m := range family.GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		if labels["provider"] == "openai" && labels["model"] == "gpt-4" && labels["status"] == StatusInvocationFailed {
			found = true
			if m.GetCounter().GetValue() < 2 {
				t.Errorf("counter = %v, want at least 2", m.GetCounter().GetValue())
			}
		}
	}
	if !found {
		t.Error("labelled series not found")
	}
}

func TestResponseDurationObserves(t *testing.T) {
	ResponseDuration.WithLabelValues("anthropic", "claude-3-haiku-20240307").Observe(0.42)

	family := gatherFamily(t, "venturekit_response_duration_seconds")
	if family == nil {
		t.Fatal("venturekit_response_duration_seconds not registered")
	}
	var sampleCount uint64
	for _, m := range family.GetMetric() {
		sampleCount += m.GetHistogram().GetSampleCount()
	}
	if sampleCount == 0 {
		t.Error("histogram recorded no samples")
	}
}

func TestDiscoveryFallbacksRegistered(t *testing.T) {
	DiscoveryFallbacks.WithLabelValues("ollama").Inc()
	if gatherFamily(t, "venturekit_discovery_fallbacks_total") == nil {
		t.Error("venturekit_discovery_fallbacks_total not registered")
	}
}

func TestRateLimitWaitsRegistered(t *testing.T) {
	RateLimitWaits.WithLabelValues("openai").Inc()
	if gatherFamily(t, "venturekit_rate_limit_waits_total") == nil {
		t.Error("venturekit_rate_limit_waits_total not registered")
	}
}
