// cmd/flowsmith/generate.go
package main

import (
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate the architecture diagram from scratch",
		Long:  "Scans the repository, builds a code skeleton, and asks the LLM for a fresh Mermaid diagram, replacing any existing artifact.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoDir, err := repoDirArg(args)
			if err != nil {
				return err
			}

			p, cleanup, err := newPipeline(repoDir)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := p.Generate(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(report)
		},
	}
}
