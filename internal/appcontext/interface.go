// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete App so they can be tested with a Mock.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/pkg/rules"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/satmap/app implements it.
type Interface interface {
	// Engine returns an engine over the configured store. The options are
	// applied after the ones derived from configuration. The store is opened
	// once and shared; callers must not close the engine.
	Engine(ctx context.Context, opts ...satmap.Option) (satmap.Engine, error)

	// Rules returns the configured sector rules, loaded and validated.
	Rules() (*rules.RuleSet, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
