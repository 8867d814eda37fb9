// Package relations provides the relations command.
package relations

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/cmdutil"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/internal/cmd/table"
	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// NewCommand creates the relations command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var filter taxonomy.RelationFilter

	cmd := &cobra.Command{
		Use:     "relations",
		GroupID: "query",
		Short:   "List stored materiality relations",
		Args:    cobra.NoArgs,
		Long: `Relations lists stored relations, highest score first.

Filter by activity to see the products an activity is congruent with, or by
product to see which activities justify it.`,
		Example: `  satmap relations --activity 561090
  satmap relations --product 76111500 -o wide
  satmap relations --min-score 0.9 --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filter.MinScore < 0 || filter.MinScore > 1 {
				return errors.NewValidationError("min-score", filter.MinScore, "must be between 0 and 1")
			}
			ctx := cmdutil.Context(cmd, app)
			engine, err := app.Engine(ctx)
			if err != nil {
				return err
			}

			rels, err := engine.Relations(ctx, filter)
			if err != nil {
				return err
			}
			if rels == nil {
				rels = []taxonomy.Relation{}
			}

			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, rels, func() output.Data {
				return table.RelationsToTableData(rels, format == output.FormatWide)
			}, "")
		},
	}

	cmd.Flags().StringVarP(&filter.ActivityCode, "activity", "a", "", "only relations of this activity code")
	cmd.Flags().StringVarP(&filter.ProductCode, "product", "p", "", "only relations of this product code")
	cmd.Flags().Float64Var(&filter.MinScore, "min-score", 0, "only relations scoring at least this")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "l", constants.DefaultRelationLimit, "maximum relations to list (0 for all)")
	return cmd
}
