// Package match provides the match command.
package match

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/cmdutil"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/internal/cmd/table"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Flags holds the match command flags.
type Flags struct {
	Truncate  bool
	Workers   int
	Threshold float64
	Levels    []string
	DryRun    bool
}

// NewCommand creates the match command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "match",
		GroupID: "core",
		Short:   "Compute activity/product materiality relations",
		Args:    cobra.NoArgs,
		Long: `Match scores every leaf economic activity against the product catalog
and stores the relations whose score reaches the acceptance threshold.

The score combines sector-rule agreement (50%), name similarity (35%) and
the goods/services category (15%). A stored score is only ever raised; use
--truncate to rebuild the relation table from scratch.`,
		Example: `  satmap match                        # Match with configured settings
  satmap match --truncate --workers 8 # Rebuild relations in parallel
  satmap match --threshold 0.8        # Stricter acceptance
  satmap match --dry-run -o json      # Print relations without storing them`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdutil.Context(cmd, app)
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}

			engine, err := app.Engine(ctx, satmap.WithDryRun(flags.DryRun))
			if err != nil {
				return err
			}
			result, err := engine.Match(ctx, opts...)
			if err != nil {
				return err
			}

			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, result, func() output.Data {
				if flags.DryRun {
					return table.RelationsToTableData(result.Relations, format == output.FormatWide)
				}
				return table.MatchResultToTableData(result)
			}, result.Summary())
		},
	}

	cmd.Flags().BoolVar(&flags.Truncate, "truncate", false, "clear the relation table before matching")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "activities matched concurrently (default from config)")
	cmd.Flags().Float64Var(&flags.Threshold, "threshold", 0, "minimum accepted score (default from config)")
	cmd.Flags().StringSliceVar(&flags.Levels, "levels", nil, "product levels to match against (DIVISION, GROUP, CLASS, PRODUCT)")
	cmdutil.AddDryRunFlag(cmd, &flags.DryRun)
	return cmd
}

// options converts the flags that were set into matcher options.
func (f *Flags) options(cmd *cobra.Command) ([]materiality.Option, error) {
	opts := []materiality.Option{materiality.WithClearRelations(f.Truncate)}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, materiality.WithWorkers(f.Workers))
	}
	if cmd.Flags().Changed("threshold") {
		opts = append(opts, materiality.WithThreshold(f.Threshold))
	}
	if len(f.Levels) > 0 {
		levels := make([]taxonomy.ProductLevel, 0, len(f.Levels))
		for _, s := range f.Levels {
			l, err := taxonomy.ParseProductLevel(strings.TrimSpace(s))
			if err != nil {
				return nil, errors.WrapValidation("levels", err)
			}
			levels = append(levels, l)
		}
		opts = append(opts, materiality.WithLevels(levels...))
	}
	return opts, nil
}
