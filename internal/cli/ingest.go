package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	ingestDir    string
	ingestReset  bool
	ingestStrict bool
)

// ingestCmd rebuilds the vector index from the corpus directory.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the guideline corpus into the vector store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		strict := ingestStrict || a.cfg.Settings.Ingest.Strict
		pipeline, err := a.newPipeline(strict)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		if ingestReset {
			if err := pipeline.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset collection: %w", err)
			}
		} else if err := a.vectorStore.EnsureCollection(ctx, a.cfg.QdrantCollection, a.cfg.QdrantVectorSize); err != nil {
			return fmt.Errorf("failed to ensure collection: %w", err)
		}

		dir := a.cfg.CorpusDir
		if ingestDir != "" {
			dir = ingestDir
		}

		report, err := pipeline.Ingest(ctx, dir)
		if err != nil {
			return err
		}

		fmt.Printf("Documents indexed:  %d\n", report.DocsProcessed)
		fmt.Printf("Chunks indexed:     %d\n", report.ChunksIndexed)
		fmt.Printf("Pairing skips:      %d\n", report.PairingSkips)
		fmt.Printf("Document failures:  %d\n", report.DocFailures)
		fmt.Printf("Duration:           %s\n", report.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "corpus directory (defaults to CORPUS_DIR)")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "drop and recreate the collection before ingesting")
	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false, "abort on the first document failure")
	rootCmd.AddCommand(ingestCmd)
}
