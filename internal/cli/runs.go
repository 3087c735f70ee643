package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd lists recent ingestion runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		runs, err := a.runs.ListRecent(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No ingestion runs recorded.")
			return nil
		}

		for _, run := range runs {
			mode := "lenient"
			if run.Strict {
				mode = "strict"
			}
			fmt.Printf("#%d  %s  docs=%d chunks=%d skips=%d failures=%d  %s  %s\n",
				run.ID,
				run.StartedAt.Format(time.RFC3339),
				run.DocsProcessed, run.ChunksIndexed,
				run.PairingSkips, run.DocFailures,
				run.Duration.Round(time.Millisecond),
				mode,
			)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}
