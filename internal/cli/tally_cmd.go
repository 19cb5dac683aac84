package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/application/commands"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	"github.com/Na-Varte-5/house-management-sub001/internal/app/bootstrap"
)

func TallyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tally <proposal-id>",
		Short: "Tally a proposal as an administrator",
		Args:  cobra.ExactArgs(1),
		RunE:  runTally,
	}
	cmd.Flags().String("as", "govctl", "User id recorded as the tallying administrator")
	return cmd
}

func runTally(cmd *cobra.Command, args []string) error {
	operator, _ := cmd.Flags().GetString("as")
	app, err := bootstrap.BuildOperator(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Module.Handler.Tally.Execute(cmd.Context(), commands.TallyProposalCommand{
		ProposalID: args[0],
		Caller: entities.Caller{
			UserID: operator,
			Roles:  entities.NewRoleSet(entities.RoleAdmin),
		},
	})
	if err != nil {
		return err
	}
	printTally(cmd.OutOrStdout(), result)
	return nil
}

func printTally(out io.Writer, result commands.TallyProposalResult) {
	outcome := color.New(color.FgRed).Sprint("REJECTED")
	if result.Result.Passed {
		outcome = color.New(color.FgGreen).Sprint("PASSED")
	}
	fmt.Fprintf(out, "Proposal %s: %s (%s)\n", result.Result.ProposalID, outcome, result.Result.MethodAppliedVersion)
	fmt.Fprintf(out, "  yes:     %s (%d votes)\n", result.Result.YesWeight.String(), result.Votes.Yes)
	fmt.Fprintf(out, "  no:      %s (%d votes)\n", result.Result.NoWeight.String(), result.Votes.No)
	fmt.Fprintf(out, "  abstain: %s (%d votes)\n", result.Result.AbstainWeight.String(), result.Votes.Abstain)
	fmt.Fprintf(out, "  total:   %s\n", result.Result.TotalWeight.String())
}
