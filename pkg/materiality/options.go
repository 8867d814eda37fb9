package materiality

import (
	"fmt"
	"math"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Weights are the coefficients of the composite score.
type Weights struct {
	Hierarchy float64 `json:"hierarchy" yaml:"hierarchy"`
	Semantic  float64 `json:"semantic" yaml:"semantic"`
	Unit      float64 `json:"unit" yaml:"unit"`
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		Hierarchy: constants.HierarchyWeight,
		Semantic:  constants.SemanticWeight,
		Unit:      constants.UnitWeight,
	}
}

// Score combines component scores, summed left to right.
func (w Weights) Score(b taxonomy.Breakdown) float64 {
	return w.Hierarchy*b.Hierarchy + w.Semantic*b.Semantic + w.Unit*b.Unit
}

type options struct {
	threshold    float64
	pruneFloor   float64
	weights      Weights
	sampleLength int
	workers      int
	levels       []taxonomy.ProductLevel
	clear        bool
	dryRun       bool
}

func defaultOptions() *options {
	return &options{
		threshold:    constants.AcceptanceThreshold,
		pruneFloor:   constants.PruneFloor,
		weights:      DefaultWeights(),
		sampleLength: constants.SemanticSampleLength,
		workers:      constants.DefaultWorkers,
	}
}

// Option configures a Matcher.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithThreshold sets the minimum composite score of an accepted relation.
func WithThreshold(t float64) Option {
	return func(o *options) error {
		if t < 0 || t > 1 || math.IsNaN(t) {
			return errors.NewValidationError("threshold", t, "must be between 0 and 1")
		}
		o.threshold = t
		return nil
	}
}

// WithPruneFloor sets the hierarchy score below which candidates are not scored.
func WithPruneFloor(f float64) Option {
	return func(o *options) error {
		if f < 0 || f > 1 || math.IsNaN(f) {
			return errors.NewValidationError("prune_floor", f, "must be between 0 and 1")
		}
		o.pruneFloor = f
		return nil
	}
}

// WithWeights replaces the score weights. They must be non-negative and sum to 1.
func WithWeights(w Weights) Option {
	return func(o *options) error {
		if w.Hierarchy < 0 || w.Semantic < 0 || w.Unit < 0 {
			return errors.NewValidationError("weights", w, "must be non-negative")
		}
		if sum := w.Hierarchy + w.Semantic + w.Unit; math.Abs(sum-1) > 1e-9 {
			return errors.NewValidationError("weights", w, "must sum to 1")
		}
		o.weights = w
		return nil
	}
}

// WithSampleLength sets how many characters of the activity text are compared.
func WithSampleLength(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.NewValidationError("sample_length", n, "must be positive")
		}
		o.sampleLength = n
		return nil
	}
}

// WithWorkers sets how many activities are matched concurrently.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxWorkers {
			return errors.NewValidationError("workers", n, fmt.Sprintf("must be between 1 and %d", constants.MaxWorkers))
		}
		o.workers = n
		return nil
	}
}

// WithLevels restricts candidate products to the given levels.
// No levels means every level.
func WithLevels(levels ...taxonomy.ProductLevel) Option {
	return func(o *options) error {
		o.levels = append([]taxonomy.ProductLevel(nil), levels...)
		return nil
	}
}

// WithClearRelations empties the relation table before matching.
func WithClearRelations(enabled bool) Option {
	return func(o *options) error {
		o.clear = enabled
		return nil
	}
}

// WithDryRun scores without writing; accepted relations are returned in the Result.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
