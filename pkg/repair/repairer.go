// Package repair reconciles the parent/level structure of the two catalogs.
//
// Each pass reads a taxonomy, plans the writes with a pure function
// (PlanActivities, PlanProducts) and applies them: synthetic ancestors
// first, then hierarchy updates, both in batches. Store errors abort the
// pass and leave earlier batches committed; malformed codes are skipped
// and logged.
package repair

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/store"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Store is the part of the catalog store a Repairer needs.
type Store interface {
	store.ActivityStore
	store.ProductStore
}

// Repairer applies hierarchy repairs to a store.
type Repairer struct {
	store   Store
	options *options
}

// New creates a Repairer.
func New(st Store, opts ...Option) (*Repairer, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Repairer{store: st, options: o}, nil
}

// Activities repairs the economic activity hierarchy.
func (r *Repairer) Activities(ctx context.Context) (*Result, error) {
	ctx = logging.WithTaxonomy(ctx, taxonomy.Activities.String())
	logger := logging.FromContext(ctx)
	result := NewResult(taxonomy.Activities)
	result.DryRun = r.options.dryRun
	defer result.Finalize()

	activities, err := r.store.Activities(ctx)
	if err != nil {
		return result, err
	}
	result.Scanned = len(activities)
	logger.Info().Int("records", len(activities)).Msg("analyzing activity hierarchy")

	plan := PlanActivities(activities)
	result.Remapped = plan.Remapped
	result.Created = len(plan.Synthetic)
	result.Relevelled = plan.Relevelled
	result.Skipped = len(plan.Skipped)
	logSkipped(logger, plan.Skipped)

	if r.options.dryRun {
		return result, nil
	}

	planned := make([]uuid.UUID, len(plan.Synthetic))
	for i, a := range plan.Synthetic {
		planned[i] = a.ID
	}
	for _, batch := range store.Batches(plan.Synthetic, r.options.syntheticBatch) {
		for _, a := range batch {
			logger.Debug().Str("code", a.Code).Msg("creating synthetic sector")
		}
		if err := r.store.InsertActivities(ctx, batch); err != nil {
			return result, err
		}
	}
	if n := plan.Retarget(planned); n > 0 {
		logger.Warn().Int("sectors", n).Msg("synthetic sectors already existed, reusing stored rows")
	}
	for _, batch := range store.Batches(plan.Updates, r.options.updateBatch) {
		if err := r.store.UpdateActivityHierarchy(ctx, batch); err != nil {
			return result, err
		}
	}

	logger.Info().
		Int("remapped", result.Remapped).
		Int("created", result.Created).
		Int("relevelled", result.Relevelled).
		Int("skipped", result.Skipped).
		Msg("activity hierarchy repaired")
	return result, nil
}

// Products repairs the products/services hierarchy.
func (r *Repairer) Products(ctx context.Context) (*Result, error) {
	ctx = logging.WithTaxonomy(ctx, taxonomy.Products.String())
	logger := logging.FromContext(ctx)
	result := NewResult(taxonomy.Products)
	result.DryRun = r.options.dryRun
	defer result.Finalize()

	products, err := r.store.Products(ctx)
	if err != nil {
		return result, err
	}
	result.Scanned = len(products)
	logger.Info().Int("records", len(products)).Msg("analyzing product hierarchy")

	plan := PlanProducts(products)
	result.Remapped = plan.Remapped
	result.Created = len(plan.Synthetic)
	result.Relevelled = plan.Relevelled
	result.Skipped = len(plan.Skipped)
	logSkipped(logger, plan.Skipped)

	if r.options.dryRun {
		return result, nil
	}

	if len(plan.Synthetic) > 0 {
		logger.Info().Int("nodes", len(plan.Synthetic)).Msg("creating missing taxonomy nodes")
	}
	for _, batch := range store.Batches(plan.Synthetic, r.options.syntheticBatch) {
		if err := r.store.InsertProducts(ctx, batch); err != nil {
			return result, err
		}
	}
	for _, batch := range store.Batches(plan.Updates, r.options.updateBatch) {
		if err := r.store.UpdateProductHierarchy(ctx, batch); err != nil {
			return result, err
		}
	}

	logger.Info().
		Int("remapped", result.Remapped).
		Int("created", result.Created).
		Int("relevelled", result.Relevelled).
		Int("skipped", result.Skipped).
		Msg("product hierarchy repaired")
	return result, nil
}

func logSkipped(logger *zerolog.Logger, skipped []error) {
	for _, err := range skipped {
		logger.Warn().Err(err).Msg("skipping entity")
	}
}
