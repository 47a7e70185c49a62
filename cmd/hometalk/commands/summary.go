// ABOUTME: Summary command generates or shows a household's daily digest
// ABOUTME: Prints the bilingual summary and five key phrases to stdout
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junwei/hometalk/internal/core"
)

// NewSummaryCmd creates the summary command.
func NewSummaryCmd() *cobra.Command {
	var (
		date       string
		jsonOutput bool
		show       bool
	)

	cmd := &cobra.Command{
		Use:   "summary <household-id>",
		Short: "Generate or show the daily summary",
		Long: `Generate (or with --show, read back) the bilingual daily summary
for a household's local calendar date. Regenerating a date replaces
the stored summary and its key phrases.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args[0], date, show, jsonOutput)
		},
		Example: `  # Summarize today
  hometalk summary hh_20241202_abc123

  # Summarize a specific date
  hometalk summary hh_20241202_abc123 --date 2024-12-01

  # Show the stored summary without regenerating
  hometalk summary hh_20241202_abc123 --date 2024-12-01 --show`,
	}

	cmd.Flags().StringVar(&date, "date", "", "Local date YYYY-MM-DD (default: today in the household's timezone)")
	cmd.Flags().BoolVar(&show, "show", false, "Read the stored summary instead of regenerating")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runSummary(cmd *cobra.Command, householdID, date string, show, jsonOutput bool) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	var result *core.SummaryResult
	if show {
		if date == "" {
			return fmt.Errorf("--show requires --date")
		}
		summary, err := p.store.Summaries.Get(householdID, date)
		if err != nil {
			return err
		}
		if summary == nil {
			return fmt.Errorf("no summary stored for %s on %s", householdID, date)
		}
		phrases, err := p.store.Summaries.GetPhrases(householdID, date)
		if err != nil {
			return err
		}
		result = &core.SummaryResult{Summary: summary, Phrases: phrases}
	} else {
		result, err = p.agg.Generate(cmd.Context(), householdID, date)
		if err != nil {
			return err
		}
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
	fmt.Fprintf(out, "Daily summary for %s\n\n", result.Summary.Date)
	fmt.Fprintf(out, "  EN: %s\n", result.Summary.TopicSummaryEN)
	fmt.Fprintf(out, "  ZH: %s\n", result.Summary.TopicSummaryZH)
	if result.Summary.WhatsNewEN != "" {
		fmt.Fprintf(out, "\nWhat's new:\n  EN: %s\n  ZH: %s\n",
			result.Summary.WhatsNewEN, result.Summary.WhatsNewZH)
	}
	fmt.Fprintf(out, "\nKey phrases:\n")
	for _, phrase := range result.Phrases {
		marker := " "
		if phrase.NewToday {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %d. %s - %s\n", marker, phrase.Rank, phrase.English, phrase.Chinese)
		if phrase.Explanation != "" {
			fmt.Fprintf(out, "       %s\n", phrase.Explanation)
		}
	}
	fmt.Fprintf(out, "\n(* = new today)\n")
	return nil
}
