// Package cmdutil provides helpers shared by satmap commands.
package cmdutil

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/cmd/output"
	"github.com/agentstation/satmap/pkg/logging"
)

// AddDryRunFlag adds --dry-run to a command.
func AddDryRunFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "dry-run", false, "plan changes without writing to the database")
}

// Context returns the command context carrying the application logger.
func Context(cmd *cobra.Command, app appcontext.Interface) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, app.Logger())
}

// Format returns the validated output format. Without an explicit format,
// terminals get a table and pipes get JSON.
func Format(app appcontext.Interface) (output.Format, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return "", err
	}
	if format == "" {
		return output.DetectFormat(""), nil
	}
	return format, nil
}

// Render writes data in the configured format. Table formats render
// toTable() followed by the summary line, if any.
func Render(cmd *cobra.Command, app appcontext.Interface, data any, toTable func() output.Data, summary string) error {
	format, err := Format(app)
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), format, output.View{Value: data, Table: toTable, Summary: summary})
}
