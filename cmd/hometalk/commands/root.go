// ABOUTME: Root CLI command and global flags
// ABOUTME: Wires all subcommands of the hometalk binary
package commands

import (
	"github.com/spf13/cobra"
)

// Global flags shared by all subcommands.
var (
	quiet   bool
	verbose bool
	dbPath  string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hometalk",
		Short: "Bilingual household communication bridge",
		Long: `hometalk - bilingual household communication bridge

Record an utterance, hear it translated for the other side of the
household, capture the reply, and hear it back in your own language.
Conversations are persisted and distilled into daily summaries and
study vocabulary.

Run 'hometalk serve' for the HTTP API, 'hometalk mcp' for the MCP
server, or use the summary/vocab commands directly.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database (default: XDG data dir)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewMCPCmd())
	rootCmd.AddCommand(NewSummaryCmd())
	rootCmd.AddCommand(NewVocabCmd())
	rootCmd.AddCommand(NewHouseholdCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
