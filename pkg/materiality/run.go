package materiality

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/store"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// progressEvery is how many activities pass between progress logs.
const progressEvery = 100

// Store is the part of the catalog store a matching run needs.
type Store interface {
	LeafActivities(ctx context.Context) ([]taxonomy.Activity, error)
	Products(ctx context.Context) ([]taxonomy.Product, error)
	store.RelationStore
}

// Run matches every leaf activity against the product catalog and persists
// the accepted relations. A store error stops the run; relations written by
// earlier activities stay committed.
func (m *Matcher) Run(ctx context.Context, st Store) (*Result, error) {
	ctx = logging.WithPhase(ctx, "match")
	logger := logging.FromContext(ctx)
	result := &Result{DryRun: m.options.dryRun, StartTime: time.Now().UTC()}
	defer result.Finalize()

	if m.options.clear && !m.options.dryRun {
		logger.Info().Msg("clearing relation table")
		if err := st.ClearRelations(ctx); err != nil {
			return result, err
		}
		result.Cleared = true
	}

	activities, err := st.LeafActivities(ctx)
	if err != nil {
		return result, err
	}
	products, err := st.Products(ctx)
	if err != nil {
		return result, err
	}

	ix := NewDivisionIndex(products, m.options.levels...)
	for _, err := range ix.Skipped() {
		logger.Warn().Err(err).Msg("skipping product")
	}
	result.Products = ix.Len()
	result.Skipped = len(ix.Skipped())

	logger.Info().
		Int("activities", len(activities)).
		Int("products", ix.Len()).
		Int("divisions", len(ix.Divisions())).
		Int("workers", m.options.workers).
		Float64("threshold", m.options.threshold).
		Str("rules_version", m.rules.Version).
		Msg("starting materiality match")

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.options.workers)

	for _, act := range activities {
		if gctx.Err() != nil {
			break
		}
		if err := taxonomy.ValidateActivityCode(act.Code); err != nil {
			logger.Warn().Err(err).Msg("skipping activity")
			result.Skipped++
			continue
		}
		result.Activities++

		g.Go(func() error {
			out := m.MatchActivity(act, ix)
			if len(out.Relations) > 0 && !m.options.dryRun {
				if err := st.UpsertRelations(gctx, out.Relations); err != nil {
					return err
				}
			}

			mu.Lock()
			defer mu.Unlock()
			result.add(out)
			done++
			if done%progressEvery == 0 {
				logger.Info().Int("processed", done).Int("accepted", result.Accepted).Msg("match progress")
			}
			logging.FromContext(logging.WithActivity(ctx, act.Code)).Debug().
				Int("candidates", out.Candidates).
				Int("accepted", len(out.Relations)).
				Msg("activity matched")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	sort.Slice(result.Relations, func(i, j int) bool {
		a, b := result.Relations[i], result.Relations[j]
		if a.ActivityCode != b.ActivityCode {
			return a.ActivityCode < b.ActivityCode
		}
		return a.ProductCode < b.ProductCode
	})

	logger.Info().
		Int("accepted", result.Accepted).
		Int("unmatched", result.Unmatched).
		Int("pruned", result.Pruned).
		Msg("materiality match complete")
	return result, nil
}
