package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ichrag",
	Short: "ichrag indexes ICH guideline documents and answers questions about them",
	Long: `ichrag is a retrieval-augmented QA tool for ICH regulatory guidelines.

It pairs JSON metadata files with their text bodies, chunks and embeds the
documents into a Qdrant vector index, and answers questions grounded on the
retrieved guideline text with citations back to the source documents.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
