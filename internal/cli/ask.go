package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MaTTalv001/ICH-RAG/internal/rag"
)

var askK int

// askCmd answers a question from the indexed guidelines.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question grounded on the indexed guidelines",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		question := strings.Join(args, " ")
		resp, err := a.engine.Ask(cmd.Context(), rag.AskRequest{Question: question, K: askK})
		if err != nil {
			return err
		}

		fmt.Println(resp.Answer)
		if len(resp.Sources) > 0 {
			fmt.Println("\nSources:")
			for _, src := range resp.Sources {
				printSource(src)
			}
		}
		return nil
	},
}

// printSource renders one citation.
func printSource(src rag.Source) {
	fmt.Printf("  - %s (%s, %s)\n", src.Title, src.Code, src.Category)
	if src.SourceFile != "" {
		fmt.Printf("    file: %s\n", src.SourceFile)
	}
	fmt.Printf("    %s\n", src.Preview)
}

func init() {
	askCmd.Flags().IntVarP(&askK, "top-k", "k", 0, "number of chunks to retrieve (defaults to settings)")
	rootCmd.AddCommand(askCmd)
}
