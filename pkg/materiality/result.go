package materiality

import (
	"fmt"
	"time"

	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Result reports a matching run.
type Result struct {
	Activities int `json:"activities" yaml:"activities"`
	Products   int `json:"products" yaml:"products"`
	// Candidates counts scored activity/product pairs.
	Candidates int `json:"candidates" yaml:"candidates"`
	// Pruned counts pairs discarded without scoring.
	Pruned   int `json:"pruned" yaml:"pruned"`
	Accepted int `json:"accepted" yaml:"accepted"`
	Rejected int `json:"rejected" yaml:"rejected"`
	// Unmatched counts activities without any accepted relation.
	Unmatched int `json:"unmatched" yaml:"unmatched"`
	Skipped   int `json:"skipped" yaml:"skipped"`

	Cleared   bool          `json:"cleared" yaml:"cleared"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Relations holds the accepted relations of a dry run.
	Relations []taxonomy.Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Finalize records the elapsed time.
func (r *Result) Finalize() {
	r.Duration = time.Since(r.StartTime)
}

func (r *Result) add(o Outcome) {
	r.Candidates += o.Candidates
	r.Pruned += o.Pruned
	r.Rejected += o.Rejected
	r.Accepted += len(o.Relations)
	if !o.Matched() {
		r.Unmatched++
	}
	if r.DryRun {
		r.Relations = append(r.Relations, o.Relations...)
	}
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	verb := "Matched"
	if r.DryRun {
		verb = "Dry run matched"
	}
	return fmt.Sprintf("%s %d activities against %d products: %d relations accepted, %d scored, %d pruned, %d activities unmatched",
		verb, r.Activities, r.Products, r.Accepted, r.Candidates, r.Pruned, r.Unmatched)
}
