// Package repair provides the repair command.
package repair

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/alerts"
	"github.com/agentstation/satmap/internal/cmd/cmdutil"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/internal/cmd/table"
	"github.com/agentstation/satmap/pkg/repair"
)

// Targets accepted as the first argument.
const (
	TargetActivities = "activities"
	TargetProducts   = "products"
	TargetAll        = "all"
)

// NewCommand creates the repair command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:       "repair [activities|products|all]",
		GroupID:   "core",
		Short:     "Repair the parent/level structure of the catalogs",
		ValidArgs: []string{TargetActivities, TargetProducts, TargetAll},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `Repair reconciles the hierarchy of the economic activity and
products/services catalogs.

Every activity is attached to its longest existing code prefix; orphans get a
generated sector. Every product is attached to its division, group and class,
creating placeholder nodes for missing ancestors. Levels are corrected from
the code shape. Repairs only insert and update; nothing is deleted.`,
		Example: `  satmap repair                 # Repair both catalogs
  satmap repair activities      # Repair only the activity catalog
  satmap repair all --dry-run   # Show what would change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := TargetAll
			if len(args) == 1 {
				target = args[0]
			}
			ctx := cmdutil.Context(cmd, app)

			engine, err := app.Engine(ctx, satmap.WithDryRun(dryRun))
			if err != nil {
				return err
			}

			var results []*repair.Result
			if target == TargetActivities || target == TargetAll {
				r, err := engine.RepairActivities(ctx)
				if err != nil {
					return err
				}
				results = append(results, r)
			}
			if target == TargetProducts || target == TargetAll {
				r, err := engine.RepairProducts(ctx)
				if err != nil {
					return err
				}
				results = append(results, r)
			}

			summary := ""
			for i, r := range results {
				if i > 0 {
					summary += "\n"
				}
				summary += r.Summary()
				if r.Skipped > 0 {
					warn := alerts.Warning("%d %s with malformed codes were skipped (see log)", r.Skipped, r.Taxonomy)
					if err := warn.Write(cmd.ErrOrStderr()); err != nil {
						return err
					}
				}
			}
			return cmdutil.Render(cmd, app, results,
				func() output.Data { return table.RepairResultsToTableData(results...) }, summary)
		},
	}

	cmdutil.AddDryRunFlag(cmd, &dryRun)
	return cmd
}

