// Package name provides the name command.
package name

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/cmdutil"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/internal/cmd/table"
)

// NewCommand creates the name command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "name",
		GroupID: "core",
		Short:   "Give readable names to product divisions and groups",
		Args:    cobra.NoArgs,
		Long: `Name replaces placeholder names of DIVISION and GROUP product nodes.

Divisions take their canonical name from a built-in table. Groups are named
after their first class. Only names that change are written.`,
		Example: `  satmap name             # Rename nodes
  satmap name --dry-run   # List the renames without applying them`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdutil.Context(cmd, app)
			engine, err := app.Engine(ctx, satmap.WithDryRun(dryRun))
			if err != nil {
				return err
			}

			result, err := engine.NameNodes(ctx)
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, result, func() output.Data {
				if dryRun {
					return table.RenamesToTableData(result.Renames)
				}
				return table.NamingResultToTableData(result)
			}, result.Summary())
		},
	}

	cmdutil.AddDryRunFlag(cmd, &dryRun)
	return cmd
}
