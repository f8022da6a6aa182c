// cmd/flowsmith/update.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/julianshen/flowsmith/internal/pipeline"
)

func updateCmd() *cobra.Command {
	var (
		forceFull bool
		baseRef   string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "update [path]",
		Short: "Bring the diagram in line with recent changes",
		Long:  "Diffs the repository against the last recorded run (or the configured base ref), maps the changes onto diagram steps, and either patches the affected labels or regenerates the diagram when the impact is too large.",
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

			report, err := p.Update(cmd.Context(), pipeline.UpdateOptions{
				ForceFull: forceFull,
				BaseRef:   baseRef,
				Threshold: threshold,
			})
			if err != nil {
				return err
			}
			return printReport(report)
		},
	}

	cmd.Flags().BoolVar(&forceFull, "force-full", false, "force full regeneration")
	cmd.Flags().StringVar(&baseRef, "base", "", "git ref to diff against (overrides run history)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "affected-node percentage forcing full regeneration (overrides config)")

	return cmd
}
