package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and corpus statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	stats := engine.Stats()
	count, err := chunkStore.Count(context.Background())
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	cmd.Println("Index")
	cmd.Printf("  Vectors:   %d\n", stats.VectorCount)
	cmd.Printf("  Dimension: %d\n", stats.Dimension)
	cmd.Printf("  Ready:     %v\n", stats.Trained)
	cmd.Printf("  Directory: %s\n", settings.Index.Dir)
	cmd.Println()
	cmd.Println("Corpus")
	cmd.Printf("  Chunks:    %d\n", count)
	cmd.Println()
	cmd.Println("Models")
	cmd.Printf("  Embedding:  %s\n", orUnset(embeddingModelName()))
	cmd.Printf("  Generation: %s\n", orUnset(generationModelName()))
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
