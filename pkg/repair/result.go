package repair

import (
	"fmt"
	"time"

	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Result reports what a repair pass found and changed.
type Result struct {
	Taxonomy taxonomy.Taxonomy `json:"taxonomy" yaml:"taxonomy"`

	// Scanned is the number of entities read from the store.
	Scanned int `json:"scanned" yaml:"scanned"`
	// Remapped counts entities whose parent reference changed.
	Remapped int `json:"remapped" yaml:"remapped"`
	// Created counts synthetic ancestors.
	Created int `json:"created" yaml:"created"`
	// Relevelled counts entities whose level was corrected.
	Relevelled int `json:"relevelled" yaml:"relevelled"`
	// Skipped counts malformed or duplicate entities left untouched.
	Skipped int `json:"skipped" yaml:"skipped"`

	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// NewResult creates a result for the given taxonomy, started now.
func NewResult(t taxonomy.Taxonomy) *Result {
	return &Result{Taxonomy: t, StartTime: time.Now().UTC()}
}

// Finalize records the elapsed time.
func (r *Result) Finalize() {
	r.Duration = time.Since(r.StartTime)
}

// HasChanges reports whether the pass changed, or would change, anything.
func (r *Result) HasChanges() bool {
	return r.Remapped > 0 || r.Created > 0 || r.Relevelled > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	counts := fmt.Sprintf("%d scanned, %d remapped, %d created, %d relevelled, %d skipped",
		r.Scanned, r.Remapped, r.Created, r.Relevelled, r.Skipped)
	switch {
	case r.DryRun && r.HasChanges():
		return fmt.Sprintf("Dry run of %s repair: %s", r.Taxonomy, counts)
	case r.DryRun:
		return fmt.Sprintf("Dry run of %s repair: no changes needed", r.Taxonomy)
	case r.HasChanges():
		return fmt.Sprintf("Repaired %s: %s", r.Taxonomy, counts)
	}
	return fmt.Sprintf("%s hierarchy already consistent (%d scanned, %d skipped)", r.Taxonomy, r.Scanned, r.Skipped)
}
