// ABOUTME: Household command manages household registration
// ABOUTME: Subcommands: add (create with language pair and timezone), show
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junwei/hometalk/internal/models"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// NewHouseholdCmd creates the household command with its subcommands.
func NewHouseholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Manage households",
		Long:  `Create and inspect households (the tenancy root holding the language pair and timezone).`,
	}

	cmd.AddCommand(newHouseholdAddCmd())
	cmd.AddCommand(newHouseholdShowCmd())

	return cmd
}

func newHouseholdAddCmd() *cobra.Command {
	var (
		langA    string
		langB    string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a household",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			hh, err := models.NewHousehold(args[0], langA, langB, timezone)
			if err != nil {
				return err
			}
			if err := store.Households.Upsert(hh); err != nil {
				return fmt.Errorf("saving household: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created household %s\n", hh.HouseholdID)
			fmt.Fprintf(cmd.OutOrStdout(), "  Languages: %s <-> %s\n", hh.LangA, hh.LangB)
			fmt.Fprintf(cmd.OutOrStdout(), "  Timezone:  %s\n", hh.Timezone)
			return nil
		},
		Example: `  hometalk household add "Chen family"
  hometalk household add "Chen family" --lang-a en --lang-b zh --timezone America/New_York`,
	}

	cmd.Flags().StringVar(&langA, "lang-a", "en", "Initiator's language code")
	cmd.Flags().StringVar(&langB, "lang-b", "zh", "Reply party's language code")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone for daily boundaries")

	return cmd
}

func newHouseholdShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <household-id>",
		Short: "Show a household",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			hh, err := store.Households.Get(args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(hh, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	return cmd
}

// openStore opens storage without the provider clients; household
// management needs no API key.
func openStore() (*sqlite.Storage, error) {
	store, err := sqlite.NewStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}
