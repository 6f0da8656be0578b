package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturekit/venturekit/llm"
)

func validateCmd() *cobra.Command {
	var checkCredentials bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and report provider readiness",
		Run: func(cmd *cobra.Command, args []string) {
			if configPath == "" {
				fatalf("--config is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				fatalf("%v", err)
			}

			registry, err := cfg.BuildRegistry()
			if err != nil {
				fatalf("%v", err)
			}

			fmt.Printf("config %s: ok\n", configPath)
			if !checkCredentials {
				return
			}

			secrets := llm.EnvSecrets{}
			for _, id := range registry.List() {
				desc, _ := registry.Describe(id)
				switch {
				case !desc.Supported():
					fmt.Printf("%-12s not yet supported\n", desc.ID)
				case desc.CredentialKey == "":
					fmt.Printf("%-12s ready (no credential required)\n", desc.ID)
				default:
					if _, err := llm.ResolveCredential(desc, secrets); err != nil {
						fmt.Printf("%-12s missing credential %s\n", desc.ID, desc.CredentialKey)
					} else {
						fmt.Printf("%-12s ready\n", desc.ID)
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&checkCredentials, "credentials", false, "Also check provider credentials in the environment")
	return cmd
}
