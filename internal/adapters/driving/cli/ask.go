package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

var (
	askLimit int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question over the indexed corpus",
	Long: `Answers a natural-language question using the local vector index.
The question is classified for intent (schemes, policies, states, crops,
years), matching chunks are retrieved and re-ranked, and the answer carries
[Source N] citations back to the context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 5, "maximum number of context chunks")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	answer, err := engine.Ask(context.Background(), args[0], askLimit)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) error {
	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Citations) > 0 {
		cmd.Println("Sources:")
		for _, c := range answer.Citations {
			line := fmt.Sprintf("  [%d] %s (%s)", c.ID, c.Source, c.Reliability)
			if c.Year != nil {
				line += fmt.Sprintf(", %d", *c.Year)
			}
			cmd.Println(line)
			if c.URL != "" {
				cmd.Printf("      %s\n", c.URL)
			}
		}
		cmd.Println()
	}

	cmd.Printf("Confidence: %.2f\n", answer.Confidence)
	if answer.Degraded {
		cmd.Println("Note: generation backend unavailable, answer assembled from source text.")
	}
	return nil
}
