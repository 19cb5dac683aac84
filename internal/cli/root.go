// Package cli holds the govctl operator commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd assembles the govctl command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "govctl",
		Short: "Operator tooling for proposal voting",
		Long: `govctl runs maintenance tasks against the governance database:
schema migration, one-off status sweeps and outbox relays, manual tallies,
and development tokens.`,
		SilenceUsage: true,
	}
	root.AddCommand(MigrateCmd())
	root.AddCommand(SweepCmd())
	root.AddCommand(RelayCmd())
	root.AddCommand(TallyCmd())
	root.AddCommand(TokenCmd())
	return root
}
