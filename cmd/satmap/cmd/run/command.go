// Package run provides the run command.
package run

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/alerts"
	"github.com/agentstation/satmap/internal/cmd/cmdutil"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/internal/cmd/table"
	"github.com/agentstation/satmap/pkg/materiality"
)

// NewCommand creates the run command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dryRun   bool
		truncate bool
	)

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Repair, name and match in one pass",
		Args:    cobra.NoArgs,
		Long: `Run executes the full pipeline: both hierarchy repairs (concurrently),
node naming, then materiality matching. A failed repair stops the run; a
failed naming pass is reported and matching still runs.`,
		Example: `  satmap run
  satmap run --truncate
  satmap run --dry-run -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdutil.Context(cmd, app)
			engine, err := app.Engine(ctx,
				satmap.WithDryRun(dryRun),
				satmap.WithMatchOptions(materiality.WithClearRelations(truncate)),
			)
			if err != nil {
				return err
			}

			result, err := engine.Run(ctx)
			if err != nil {
				return err
			}
			if result.NamingError != "" {
				warn := alerts.Warning("naming failed; matching ran on existing names").WithDetails(result.NamingError)
				if err := warn.Write(cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			return cmdutil.Render(cmd, app, result, func() output.Data {
				return table.RepairResultsToTableData(result.Activities, result.Products)
			}, result.Summary())
		},
	}

	cmd.Flags().BoolVar(&truncate, "truncate", false, "clear the relation table before matching")
	cmdutil.AddDryRunFlag(cmd, &dryRun)
	return cmd
}
