// cmd/flowsmith/history.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recent diagram runs for a repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			repoDir, err := repoDirArg(args)
			if err != nil {
				return err
			}

			st := openState()
			if st == nil {
				return fmt.Errorf("run history unavailable")
			}
			defer st.Close()

			runs, err := st.History(repoDir, limit)
			if err != nil {
				return err
			}

			if outputFlag == "json" {
				data, err := json.MarshalIndent(runs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(runs) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}
			for _, run := range runs {
				commit := run.Commit
				if len(commit) > 8 {
					commit = commit[:8]
				}
				fmt.Printf("%s  %-11s %-6s %5.1f%%  %s\n",
					run.CreatedAt.Format("2006-01-02 15:04"), run.Mode, run.Tier, run.Percentage, commit)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to show")

	return cmd
}
