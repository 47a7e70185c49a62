// ABOUTME: Vocab command extracts a day's study vocabulary
// ABOUTME: Prints ranked nouns, verbs, and phrases with translations
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/junwei/hometalk/internal/core"
)

// NewVocabCmd creates the vocab command.
func NewVocabCmd() *cobra.Command {
	var (
		date       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "vocab <household-id>",
		Short: "Extract the day's study vocabulary",
		Long: `Extract ranked study vocabulary (nouns, verbs, and useful phrases
with translations) from a household's conversations on a local date.
Beginner-level words are filtered out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVocab(cmd, args[0], date, jsonOutput)
		},
		Example: `  # Today's vocabulary
  hometalk vocab hh_20241202_abc123

  # A specific date, as JSON
  hometalk vocab hh_20241202_abc123 --date 2024-12-01 --json`,
	}

	cmd.Flags().StringVar(&date, "date", "", "Local date YYYY-MM-DD (default: today in the household's timezone)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runVocab(cmd *cobra.Command, householdID, date string, jsonOutput bool) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.vocab.Extract(cmd.Context(), householdID, date)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Vocabulary for %s\n\n", result.Date)
	printVocabSection(out, "Nouns", result.Nouns)
	printVocabSection(out, "Verbs", result.Verbs)
	printVocabSection(out, "Phrases", result.Phrases)
	return nil
}

func printVocabSection(out io.Writer, title string, items []core.VocabularyItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(w, "  %s\t%s\t(x%d)\n", item.Word, item.Translation, item.Count)
	}
	_ = w.Flush()
	fmt.Fprintln(out)
}
