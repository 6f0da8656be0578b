package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/venturekit/venturekit"
	"github.com/venturekit/venturekit/prompt"
	"github.com/venturekit/venturekit/prompts"
)

func askCmd() *cobra.Command {
	var (
		provider     string
		model        string
		templateName string
		vars         []string
		temperature  float64
		maxTokens    int
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt text]",
		Short: "Send a prompt to a provider and print the response",
		Long: `Send a one-shot prompt to a provider.

The prompt is either literal text given as arguments or a named template
from the built-in catalog (--template) filled with --var key=value pairs.

Examples:
  venturekit ask -p openai "Summarise: the dogs bark but the caravan moves on"
  venturekit ask -p anthropic -m claude-3-opus-20240229 "Name three moons of Jupiter"
  venturekit ask -p groq --template slide-ideas --var startup_concept="drone delivery for pharmacies"`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				fatalf("%v", err)
			}
			svc, closeLog, err := buildService(cfg)
			if err != nil {
				fatalf("%v", err)
			}
			if closeLog != nil {
				defer func() { _ = closeLog() }()
			}

			variables, err := parseVars(vars)
			if err != nil {
				fatalf("%v", err)
			}

			templateText := strings.Join(args, " ")
			shape := prompt.Plain
			if templateName != "" {
				t, ok := prompts.Get(templateName)
				if !ok {
					fatalf("unknown template %q; available: %s",
						templateName, strings.Join(prompts.Names(), ", "))
				}
				templateText = t.Text
				shape = t.Shape
			}
			if templateText == "" {
				fatalf("a prompt or --template is required")
			}

			opts := venturekit.RequestOptions{}
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = &temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				opts.MaxTokens = &maxTokens
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			text, err := svc.GetResponse(ctx, templateText, shape, variables, provider, model, opts)
			if err != nil {
				fatalf("%v", err)
			}
			fmt.Println(text)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "openai", "Provider ID")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model (defaults to the provider's default)")
	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Built-in template name")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variable as key=value (repeatable)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.7, "Sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum response tokens")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
	return cmd
}

func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[k] = v
	}
	return vars, nil
}
