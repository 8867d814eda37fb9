// Package satmap reconciles the SAT economic activity and CFDI product
// catalogs and computes the materiality relations between them.
//
// An Engine runs four phases against a store: the activity and product
// hierarchy repairs (independent of each other), naming of the generated
// product nodes, and the materiality match. Run executes all of them in
// order.
package satmap

import (
	"context"
	"fmt"

	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/namer"
	"github.com/agentstation/satmap/pkg/repair"
	"github.com/agentstation/satmap/pkg/rules"
	"github.com/agentstation/satmap/pkg/store"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Engine runs the reconciliation phases against a catalog store.
type Engine interface {
	// RepairActivities repairs the economic activity hierarchy
	RepairActivities(ctx context.Context) (*repair.Result, error)

	// RepairProducts repairs the products/services hierarchy
	RepairProducts(ctx context.Context) (*repair.Result, error)

	// NameNodes names DIVISION and GROUP product nodes
	NameNodes(ctx context.Context) (*namer.Result, error)

	// Match computes and persists materiality relations. The options are
	// applied after the engine's own matcher options.
	Match(ctx context.Context, opts ...materiality.Option) (*materiality.Result, error)

	// Run executes repair, naming and matching in order
	Run(ctx context.Context) (*RunResult, error)

	// Relations lists persisted relations
	Relations(ctx context.Context, filter taxonomy.RelationFilter) ([]taxonomy.Relation, error)

	// Rules returns the sector rules used for matching
	Rules() *rules.RuleSet

	// OnPhaseStarted registers a callback for when a phase starts
	OnPhaseStarted(PhaseStartedHook)

	// OnPhaseCompleted registers a callback for when a phase ends
	OnPhaseCompleted(PhaseCompletedHook)

	// Close closes the underlying store
	Close() error
}

// engine is the internal implementation of the Engine interface
type engine struct {
	store  store.Store
	config *config
	hooks  *hooks
}

// New creates a new Engine over st with the given options
func New(st store.Store, opts ...Option) (Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}

	e := &engine{
		store:  st,
		config: defaultConfig(),
		hooks:  newHooks(),
	}
	if err := e.config.apply(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	if err := e.config.rules.Validate(); err != nil {
		return nil, fmt.Errorf("validating sector rules: %w", err)
	}

	// Fail on bad stage options now rather than mid-run.
	if _, err := e.repairer(); err != nil {
		return nil, err
	}
	if _, err := e.matcher(); err != nil {
		return nil, err
	}
	return e, nil
}

// RepairActivities repairs the economic activity hierarchy
func (e *engine) RepairActivities(ctx context.Context) (*repair.Result, error) {
	var result *repair.Result
	err := e.phase(ctx, PhaseRepairActivities, func(ctx context.Context) (summarizer, error) {
		r, err := e.repairer()
		if err != nil {
			return nil, err
		}
		result, err = r.Activities(ctx)
		return result, err
	})
	return result, err
}

// RepairProducts repairs the products/services hierarchy
func (e *engine) RepairProducts(ctx context.Context) (*repair.Result, error) {
	var result *repair.Result
	err := e.phase(ctx, PhaseRepairProducts, func(ctx context.Context) (summarizer, error) {
		r, err := e.repairer()
		if err != nil {
			return nil, err
		}
		result, err = r.Products(ctx)
		return result, err
	})
	return result, err
}

// NameNodes names DIVISION and GROUP product nodes
func (e *engine) NameNodes(ctx context.Context) (*namer.Result, error) {
	var result *namer.Result
	err := e.phase(ctx, PhaseName, func(ctx context.Context) (summarizer, error) {
		var err error
		result, err = namer.New(e.store, e.namerOptions()...).Apply(ctx)
		return result, err
	})
	return result, err
}

// Match computes and persists materiality relations
func (e *engine) Match(ctx context.Context, opts ...materiality.Option) (*materiality.Result, error) {
	var result *materiality.Result
	err := e.phase(ctx, PhaseMatch, func(ctx context.Context) (summarizer, error) {
		m, err := e.matcher(opts...)
		if err != nil {
			return nil, err
		}
		result, err = m.Run(ctx, e.store)
		return result, err
	})
	return result, err
}

// Relations lists persisted relations
func (e *engine) Relations(ctx context.Context, filter taxonomy.RelationFilter) ([]taxonomy.Relation, error) {
	return e.store.Relations(ctx, filter)
}

// Rules returns the sector rules used for matching
func (e *engine) Rules() *rules.RuleSet {
	return e.config.rules
}

// OnPhaseStarted registers a callback for when a phase starts
func (e *engine) OnPhaseStarted(fn PhaseStartedHook) {
	e.hooks.OnPhaseStarted(fn)
}

// OnPhaseCompleted registers a callback for when a phase ends
func (e *engine) OnPhaseCompleted(fn PhaseCompletedHook) {
	e.hooks.OnPhaseCompleted(fn)
}

// Close closes the underlying store
func (e *engine) Close() error {
	return e.store.Close()
}

func (e *engine) repairer() (*repair.Repairer, error) {
	opts := append([]repair.Option{repair.WithDryRun(e.config.dryRun)}, e.config.repairOptions...)
	return repair.New(e.store, opts...)
}

func (e *engine) matcher(extra ...materiality.Option) (*materiality.Matcher, error) {
	opts := []materiality.Option{materiality.WithDryRun(e.config.dryRun)}
	opts = append(opts, e.config.matchOptions...)
	opts = append(opts, extra...)
	return materiality.New(e.config.rules, opts...)
}

func (e *engine) namerOptions() []namer.Option {
	return append([]namer.Option{namer.WithDryRun(e.config.dryRun)}, e.config.namerOptions...)
}
