// Package rules provides the rules command.
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/alerts"
	"github.com/agentstation/satmap/internal/cmd/cmdutil"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/internal/cmd/table"
	"github.com/agentstation/satmap/pkg/rules"
)

// NewCommand creates the rules command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		GroupID: "management",
		Short:   "Inspect and validate sector rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newShowCommand(app), newValidateCommand(app))
	return cmd
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the sector rules in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs, err := app.Rules()
			if err != nil {
				return err
			}
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			if format == output.FormatYAML {
				// Round-trips as a rules file.
				data, err := rs.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return cmdutil.Render(cmd, app, rs, func() output.Data {
				return table.RulesToTableData(rs)
			}, fmt.Sprintf("Rule set version %s, %d rules", rs.Version, len(rs.Rules)))
		},
	}
}

func newValidateCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a sector rules file",
		Long: `Validate parses and checks a rules file: prefixes are 1 to 6 digits,
every rule allows at least one 2-digit division, and no two prefixes overlap.
Without a file, the configured rules are validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rs  *rules.RuleSet
				err error
			)
			if len(args) == 1 {
				rs, err = rules.Load(args[0])
			} else {
				rs, err = app.Rules()
			}
			if err != nil {
				return err
			}
			return alerts.Success("Rule set version %s is valid (%d rules)", rs.Version, len(rs.Rules)).Write(cmd.OutOrStdout())
		},
	}
}
