package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/satmap/cmd/satmap/cmd/match"
	"github.com/agentstation/satmap/cmd/satmap/cmd/name"
	"github.com/agentstation/satmap/cmd/satmap/cmd/relations"
	"github.com/agentstation/satmap/cmd/satmap/cmd/repair"
	"github.com/agentstation/satmap/cmd/satmap/cmd/rules"
	"github.com/agentstation/satmap/cmd/satmap/cmd/run"
)

// CreateRepairCommand creates the repair command with app dependencies.
func (a *App) CreateRepairCommand() *cobra.Command {
	return repair.NewCommand(a)
}

// CreateNameCommand creates the name command with app dependencies.
func (a *App) CreateNameCommand() *cobra.Command {
	return name.NewCommand(a)
}

// CreateMatchCommand creates the match command with app dependencies.
func (a *App) CreateMatchCommand() *cobra.Command {
	return match.NewCommand(a)
}

// CreateRunCommand creates the run command with app dependencies.
func (a *App) CreateRunCommand() *cobra.Command {
	return run.NewCommand(a)
}

// CreateRelationsCommand creates the relations command with app dependencies.
func (a *App) CreateRelationsCommand() *cobra.Command {
	return relations.NewCommand(a)
}

// CreateRulesCommand creates the rules command with app dependencies.
func (a *App) CreateRulesCommand() *cobra.Command {
	return rules.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("satmap %s\n", a.version)
			cmd.Printf("  commit:   %s\n", a.commit)
			cmd.Printf("  built:    %s\n", a.date)
			cmd.Printf("  built by: %s\n", a.builtBy)
			cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
