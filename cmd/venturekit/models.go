package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func modelsCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "models [provider]",
		Short: "List providers, or the models one provider exposes",
		Args:  cobra.MaximumNArgs(1),
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

			if len(args) == 0 {
				for _, id := range svc.Providers() {
					desc, _ := svc.Describe(id)
					note := ""
					if !desc.Supported() {
						note = " (not yet supported)"
					}
					fmt.Printf("%-12s default=%s%s\n", desc.ID, desc.DefaultModel, note)
				}
				return
			}

			providerID := args[0]
			if _, ok := svc.Describe(providerID); !ok {
				fatalf("unknown provider %q", providerID)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			for _, model := range svc.ListModels(ctx, providerID) {
				fmt.Println(model)
			}
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Discovery timeout")
	return cmd
}
