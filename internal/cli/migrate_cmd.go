package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Na-Varte-5/house-management-sub001/internal/app/bootstrap"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create missing governance tables",
		RunE:  runMigrate,
	}
	cmd.Flags().Bool("dry-run", false, "Print the statements without executing them")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()
	if dryRun {
		for _, statement := range db.SchemaStatements() {
			fmt.Fprintf(out, "%s;\n\n", statement)
		}
		return nil
	}

	app, err := bootstrap.BuildOperator(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Postgres.ApplySchema(cmd.Context()); err != nil {
		fmt.Fprintf(out, "%s %v\n", color.New(color.FgRed).Sprint("FAILED"), err)
		return err
	}
	fmt.Fprintf(out, "%s governance schema applied (%d statements)\n",
		color.New(color.FgGreen).Sprint("OK"),
		len(db.SchemaStatements()),
	)
	return nil
}
