package main

import (
	"github.com/venturekit/venturekit"
	"github.com/venturekit/venturekit/llm"
)

// loadConfig reads --config when given, otherwise returns the zero config.
func loadConfig() (*venturekit.Config, error) {
	if configPath == "" {
		return &venturekit.Config{Listen: venturekit.DefaultListenAddr}, nil
	}
	return venturekit.LoadConfig(configPath)
}

// buildService assembles the service from config and the process environment.
// The returned close function flushes the invocation log; it may be nil.
func buildService(cfg *venturekit.Config) (*venturekit.Service, func() error, error) {
	registry, err := cfg.BuildRegistry()
	if err != nil {
		return nil, nil, err
	}

	requests, closeLog, err := cfg.NewRequestLog()
	if err != nil {
		return nil, nil, err
	}

	svc := venturekit.New(registry, llm.EnvSecrets{},
		venturekit.WithRateLimits(cfg.RateLimits),
		venturekit.WithRequestLog(requests),
	)
	return svc, closeLog, nil
}
