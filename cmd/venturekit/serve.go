package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/venturekit/venturekit/internal/logging"
	"github.com/venturekit/venturekit/internal/server"
	"github.com/venturekit/venturekit/internal/version"
)

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Serve the LLM core over HTTP.

Endpoints:
  POST /v1/responses          fill a template and invoke a provider
  GET  /v1/providers          list registered providers
  GET  /v1/models/{provider}  list a provider's models (cached)
  GET  /healthz               liveness probe
  GET  /metrics               Prometheus metrics`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				fatalf("%v", err)
			}
			if listen != "" {
				cfg.Listen = listen
			}

			svc, closeLog, err := buildService(cfg)
			if err != nil {
				fatalf("%v", err)
			}
			if closeLog != nil {
				defer func() { _ = closeLog() }()
			}

			srv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           server.Handler(svc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				logging.Logger.Info("server listening",
					"addr", cfg.Listen, "version", version.Short())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logging.Logger.Error("server failed", "error", err)
					stop()
				}
			}()

			<-ctx.Done()
			logging.Logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Logger.Error("shutdown failed", "error", err)
			}
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides config)")
	return cmd
}
