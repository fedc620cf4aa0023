// Package cli wires the teampulse commands: the long-running server and
// one-shot evaluators for classifying text, alerts and leaderboards.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format     string // "json" | "yaml"
	ConfigPath string
}

var ValidFormats = []string{"json", "yaml"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "teampulse",
		Short: "Team activity alerts, leaderboard and chat triage",
		Long: `teampulse turns contributor activity into risk alerts and a ranked
leaderboard, and triages team chat into vague, commitment and normal updates.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "json", "output format (json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewAlertsCommand(opts))
	cmd.AddCommand(NewLeaderboardCommand(opts))
	cmd.AddCommand(NewBehaviorCommand(opts))

	return cmd
}
