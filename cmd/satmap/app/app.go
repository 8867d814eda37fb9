// Package app provides the application context and dependency management
// for the satmap CLI: configuration, logging, the catalog store and the
// engine built on top of it.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/internal/store/sqlstore"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/repair"
	"github.com/agentstation/satmap/pkg/rules"
	"github.com/agentstation/satmap/pkg/store"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the satmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Store and rules are opened lazily, once.
	mu    sync.Mutex
	store store.Store
	rules *rules.RuleSet
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Rules returns the configured sector rules, loading them on first use.
func (a *App) Rules() (*rules.RuleSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadRules()
}

func (a *App) loadRules() (*rules.RuleSet, error) {
	if a.rules != nil {
		return a.rules, nil
	}
	if a.config.RulesFile == "" {
		a.rules = rules.Default()
		return a.rules, nil
	}
	rs, err := rules.Load(a.config.RulesFile)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("file", a.config.RulesFile).Str("version", rs.Version).Msg("loaded sector rules")
	a.rules = rs
	return rs, nil
}

// Store returns the catalog store, connecting on first use.
func (a *App) Store(ctx context.Context) (store.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openStore(ctx)
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	ctx = logging.WithLogger(ctx, a.logger)
	st, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:      a.config.Database.Driver,
		DSN:         a.config.Database.DSN,
		AutoMigrate: a.config.Database.AutoMigrate,
		LogQueries:  a.config.Database.LogQueries,
	})
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

// Engine returns an engine over the shared store. Configuration-derived
// options are applied first so opts can override them.
func (a *App) Engine(ctx context.Context, opts ...satmap.Option) (satmap.Engine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rs, err := a.loadRules()
	if err != nil {
		return nil, err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	base := []satmap.Option{
		satmap.WithRules(rs),
		satmap.WithRepairOptions(
			repair.WithSyntheticBatchSize(a.config.SyntheticBatch),
			repair.WithUpdateBatchSize(a.config.UpdateBatch),
		),
		satmap.WithMatchOptions(
			materiality.WithThreshold(a.config.Threshold),
			materiality.WithWorkers(a.config.Workers),
		),
	}
	e, err := satmap.New(st, append(base, opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("engine", "invalid engine options", err)
	}
	return e, nil
}

// Shutdown performs graceful shutdown of the application, closing the store.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to close store during shutdown")
	}
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStore sets a custom store (useful for testing).
func WithStore(st store.Store) Option {
	return func(a *App) error {
		a.store = st
		return nil
	}
}
