// Package materiality scores the congruence between leaf economic
// activities and product/service codes.
//
// For every activity the matcher looks up the sector rule that fires for its
// code, selects candidate products by division, and combines three component
// scores into a composite:
//
//	score = 0.50*hierarchy + 0.35*semantic + 0.15*unit
//
// Candidates whose hierarchy score is below the pruning floor are never
// scored: with hierarchy 0.3 the best reachable composite is 0.65, which
// cannot pass the 0.70 acceptance threshold. Accepted relations are written
// per activity with an upsert that only ever raises a stored score.
package materiality

import (
	"fmt"
	"strings"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/rules"
	"github.com/agentstation/satmap/pkg/similarity"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Matcher computes materiality relations.
type Matcher struct {
	rules   *rules.RuleSet
	options *options
}

// New creates a Matcher using the given sector rules. A nil rule set
// behaves like an empty one: only division prefix matches score.
func New(rs *rules.RuleSet, opts ...Option) (*Matcher, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = &rules.RuleSet{}
	}
	return &Matcher{rules: rs, options: o}, nil
}

// Rules returns the rule set the matcher scores with.
func (m *Matcher) Rules() *rules.RuleSet {
	return m.rules
}

// Outcome is the result of matching one activity.
type Outcome struct {
	ActivityCode string
	// Rule is the sector rule that fired, if any.
	Rule *rules.SectorRule
	// Candidates is the number of products scored.
	Candidates int
	// Pruned is the number of products never scored.
	Pruned int
	// Rejected is the number of scored products below the threshold.
	Rejected int
	// Relations are the accepted relations, ordered by product code.
	Relations []taxonomy.Relation
}

// Matched reports whether any relation was accepted.
func (o Outcome) Matched() bool {
	return len(o.Relations) > 0
}

// MatchActivity scores one leaf activity against the indexed products.
// It is pure and safe for concurrent use.
func (m *Matcher) MatchActivity(act taxonomy.Activity, ix *DivisionIndex) Outcome {
	out := Outcome{ActivityCode: act.Code}
	prefix := taxonomy.SectorCode(act.Code)

	divisions := []string{prefix}
	if rule, ok := m.rules.Match(act.Code); ok {
		out.Rule = &rule
		divisions = append(divisions, rule.AllowedDivisions...)
	}

	candidates := ix.Candidates(divisions)
	out.Pruned = ix.Len() - len(candidates)
	if len(candidates) == 0 {
		return out
	}

	text := sample(strings.ToLower(act.Text()), m.options.sampleLength)
	for _, p := range candidates {
		h, reason := m.hierarchy(out.Rule, prefix, p.Division())
		if h < m.options.pruneFloor {
			out.Pruned++
			continue
		}
		out.Candidates++

		b := taxonomy.Breakdown{
			Hierarchy: h,
			Semantic:  similarity.JaroWinkler(text, sample(strings.ToLower(p.Name), m.options.sampleLength)),
			Unit:      unitScore(p.Division()),
		}
		score := m.options.weights.Score(b)
		if score < m.options.threshold {
			out.Rejected++
			continue
		}
		out.Relations = append(out.Relations, taxonomy.Relation{
			ActivityCode: act.Code,
			ProductCode:  p.Code,
			Score:        score,
			Reason:       reason,
			Breakdown:    b,
		})
	}
	return out
}

// hierarchy scores the agreement between an activity and a product division.
func (m *Matcher) hierarchy(rule *rules.SectorRule, prefix, division string) (float64, string) {
	if rule != nil && rule.Allows(division) {
		return constants.RuleHierarchyScore,
			fmt.Sprintf("sector rule %q (prefix %s) allows division %s", rule.Sector, rule.ActivityPrefix, division)
	}
	if division == prefix {
		return constants.PrefixHierarchyScore,
			fmt.Sprintf("division %s matches activity prefix", division)
	}
	return 0, ""
}

func unitScore(division string) float64 {
	if taxonomy.IsServiceDivision(division, constants.ServiceDivisionFloor) {
		return constants.ServiceUnitScore
	}
	return constants.GoodsUnitScore
}

// sample returns the first n runes of s.
func sample(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
