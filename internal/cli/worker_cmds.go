package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Na-Varte-5/house-management-sub001/internal/app/bootstrap"
)

func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one proposal status sweep",
		Long: `Moves Scheduled proposals whose window has started to Open, and Open or
Scheduled proposals whose window has ended to Closed. Tallied proposals are
never touched.`,
		RunE: runSweep,
	}
	cmd.Flags().Int("batch", 100, "Maximum proposals examined")
	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	batch, _ := cmd.Flags().GetInt("batch")
	app, err := bootstrap.BuildOperator(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	sweeper := app.Module.StatusSweeper
	sweeper.BatchSize = batch
	moved, err := sweeper.RunOnce(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d proposal(s) moved\n", color.New(color.FgGreen).Sprint("OK"), moved)
	return nil
}

func RelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Publish one batch of pending outbox events",
		RunE:  runRelay,
	}
	cmd.Flags().Int("batch", 100, "Maximum events published")
	return cmd
}

func runRelay(cmd *cobra.Command, _ []string) error {
	batch, _ := cmd.Flags().GetInt("batch")
	app, err := bootstrap.BuildOperator(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	relay := app.Module.OutboxRelay
	relay.BatchSize = batch
	published, err := relay.RunOnce(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s published %d before failure\n", color.New(color.FgYellow).Sprint("PARTIAL"), published)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d event(s) published\n", color.New(color.FgGreen).Sprint("OK"), published)
	return nil
}
