package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesK int

// sourcesCmd shows the citations a question would retrieve, without
// generating an answer.
var sourcesCmd = &cobra.Command{
	Use:   "sources <question>",
	Short: "Show the guideline citations a question retrieves",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		question := strings.Join(args, " ")
		sources, err := a.engine.Sources(cmd.Context(), question, sourcesK)
		if err != nil {
			return err
		}

		if len(sources) == 0 {
			fmt.Println("No sources found.")
			return nil
		}
		for _, src := range sources {
			printSource(src)
		}
		return nil
	},
}

func init() {
	sourcesCmd.Flags().IntVarP(&sourcesK, "top-k", "k", 0, "number of chunks to retrieve (defaults to settings)")
	rootCmd.AddCommand(sourcesCmd)
}
