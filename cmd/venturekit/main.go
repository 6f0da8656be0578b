// Package main provides the venturekit CLI: an HTTP server plus one-shot
// commands for asking providers, listing models, and validating configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturekit/venturekit/internal/logging"
	"github.com/venturekit/venturekit/internal/version"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "venturekit",
		Short: "LLM provider core for founder tooling",
		Long: `venturekit unifies multiple LLM providers (OpenAI, Anthropic, OpenRouter,
Google, Groq, Ollama, Bedrock) behind one API with prompt templates, model
discovery, rate limiting, and an invocation log.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format: json or text")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("venturekit %s\n", version.Short())
		},
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
