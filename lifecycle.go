package satmap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/namer"
	"github.com/agentstation/satmap/pkg/repair"
)

// summarizer is implemented by every phase result.
type summarizer interface {
	Summary() string
}

// phase runs fn as the named phase: it tags the logger, fires hooks and
// wraps failures in a PhaseError.
func (e *engine) phase(ctx context.Context, p Phase, fn func(context.Context) (summarizer, error)) error {
	ctx = logging.WithPhase(ctx, p.String())
	logger := logging.FromContext(ctx)

	e.hooks.triggerStarted(p)
	start := time.Now()
	logger.Debug().Msg("phase started")

	result, err := fn(ctx)

	summary := ""
	if err == nil && result != nil {
		summary = result.Summary()
	}
	e.hooks.triggerCompleted(p, summary, err)

	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("phase failed")
		return pkgerrors.WrapPhase(p.String(), err)
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg(summary)
	return nil
}

// RunResult reports a full run.
type RunResult struct {
	RunID      string              `json:"run_id" yaml:"run_id"`
	Activities *repair.Result      `json:"activities,omitempty" yaml:"activities,omitempty"`
	Products   *repair.Result      `json:"products,omitempty" yaml:"products,omitempty"`
	Naming     *namer.Result       `json:"naming,omitempty" yaml:"naming,omitempty"`
	Match      *materiality.Result `json:"match,omitempty" yaml:"match,omitempty"`
	// NamingError records a failed naming phase; naming is cosmetic and
	// does not stop the run.
	NamingError string `json:"naming_error,omitempty" yaml:"naming_error,omitempty"`

	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Summary returns a human-readable summary of the run.
func (r *RunResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s", r.RunID)
	if r.DryRun {
		b.WriteString(" (dry run)")
	}
	fmt.Fprintf(&b, " finished in %s", r.Duration.Round(time.Millisecond))
	for _, s := range []summarizer{r.Activities, r.Products, r.Naming, r.Match} {
		if s == nil || isNilResult(s) {
			continue
		}
		b.WriteString("\n  ")
		b.WriteString(s.Summary())
	}
	if r.NamingError != "" {
		b.WriteString("\n  naming failed: ")
		b.WriteString(r.NamingError)
	}
	return b.String()
}

func isNilResult(s summarizer) bool {
	switch v := s.(type) {
	case *repair.Result:
		return v == nil
	case *namer.Result:
		return v == nil
	case *materiality.Result:
		return v == nil
	}
	return false
}

// Run repairs both catalogs concurrently, then names product nodes, then
// matches. A failed repair stops the run before matching; a failed naming
// pass is logged and the run continues.
func (e *engine) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.NewString(),
		DryRun:    e.config.dryRun,
		StartTime: time.Now().UTC(),
	}
	defer func() { result.Duration = time.Since(result.StartTime) }()

	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().Bool("dry_run", e.config.dryRun).Str("rules_version", e.config.rules.Version).Msg("starting run")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.Activities, err = e.RepairActivities(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		result.Products, err = e.RepairProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return result, err
	}

	naming, err := e.NameNodes(ctx)
	result.Naming = naming
	if err != nil {
		if ctx.Err() != nil {
			return result, err
		}
		logger.Warn().Err(err).Msg("naming failed, continuing with match")
		result.NamingError = err.Error()
	}

	result.Match, err = e.Match(ctx)
	if err != nil {
		return result, err
	}

	logger.Info().Msg("run complete")
	return result, nil
}
