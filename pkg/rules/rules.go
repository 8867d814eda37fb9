// Package rules holds the hand-curated sector rules used as a prior by the
// materiality matcher. A rule maps an activity code prefix to the product
// divisions that are plausible for it.
//
// Rule sets are versioned configuration, loaded from YAML:
//
//	version: "2026.1"
//	rules:
//	  - sector: Limpieza e Higiene
//	    activity_prefix: "56"
//	    allowed_divisions: ["76", "47"]
//	    families: ["7611", "4713"]
package rules

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/satmap/pkg/errors"
)

// DefaultVersion is the version of the built-in rule set.
const DefaultVersion = "2026.1"

// SectorRule links an activity prefix to its allowed product divisions.
type SectorRule struct {
	Sector           string   `yaml:"sector" json:"sector"`
	ActivityPrefix   string   `yaml:"activity_prefix" json:"activity_prefix"`
	AllowedDivisions []string `yaml:"allowed_divisions" json:"allowed_divisions"`
	// Families is a reference list of product families; it does not affect scoring.
	Families []string `yaml:"families,omitempty" json:"families,omitempty"`
}

// Applies reports whether the rule fires for an activity code.
func (r SectorRule) Applies(activityCode string) bool {
	return strings.HasPrefix(activityCode, r.ActivityPrefix)
}

// Allows reports whether a product division is in the rule's allowed set.
func (r SectorRule) Allows(division string) bool {
	return slices.Contains(r.AllowedDivisions, division)
}

// RuleSet is a versioned list of sector rules.
type RuleSet struct {
	Version string       `yaml:"version" json:"version"`
	Rules   []SectorRule `yaml:"rules" json:"rules"`
}

// Default returns the built-in rule set.
func Default() *RuleSet {
	return &RuleSet{
		Version: DefaultVersion,
		Rules: []SectorRule{
			{
				Sector:           "Limpieza e Higiene",
				ActivityPrefix:   "56",
				AllowedDivisions: []string{"76", "47"},
				Families:         []string{"7611", "4713"},
			},
			{
				Sector:           "Servicios Legales",
				ActivityPrefix:   "54",
				AllowedDivisions: []string{"80"},
				Families:         []string{"8012"},
			},
		},
	}
}

// Load reads and validates a rule set from a YAML file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	rs, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Parse decodes and validates a rule set from YAML bytes.
func Parse(data []byte) (*RuleSet, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.UnmarshalWithOptions(data, &rs, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Marshal encodes the rule set as YAML.
func (rs *RuleSet) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(rs, yaml.Indent(2), yaml.IndentSequence(true))
}

// Validate checks rule shapes and that no two activity prefixes overlap,
// which guarantees at most one rule fires for any activity.
func (rs *RuleSet) Validate() error {
	if rs == nil {
		return errors.NewValidationError("rules", nil, "rule set is nil")
	}
	for i, r := range rs.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if !isDigits(r.ActivityPrefix) || len(r.ActivityPrefix) > 6 {
			return errors.NewValidationError(field+".activity_prefix", r.ActivityPrefix,
				"must be 1 to 6 digits")
		}
		if len(r.AllowedDivisions) == 0 {
			return errors.NewValidationError(field+".allowed_divisions", nil, "at least one division is required")
		}
		for _, d := range r.AllowedDivisions {
			if len(d) != 2 || !isDigits(d) {
				return errors.NewValidationError(field+".allowed_divisions", d, "divisions are 2 digits")
			}
		}
		for _, f := range r.Families {
			if !isDigits(f) || len(f) > 8 {
				return errors.NewValidationError(field+".families", f, "families are up to 8 digits")
			}
		}
		for j := 0; j < i; j++ {
			other := rs.Rules[j].ActivityPrefix
			if strings.HasPrefix(r.ActivityPrefix, other) || strings.HasPrefix(other, r.ActivityPrefix) {
				return errors.NewValidationError(field+".activity_prefix", r.ActivityPrefix,
					fmt.Sprintf("overlaps rules[%d] prefix %q", j, other))
			}
		}
	}
	return nil
}

// Match returns the rule that fires for an activity code.
func (rs *RuleSet) Match(activityCode string) (SectorRule, bool) {
	if rs == nil {
		return SectorRule{}, false
	}
	for _, r := range rs.Rules {
		if r.Applies(activityCode) {
			return r, true
		}
	}
	return SectorRule{}, false
}

// Divisions returns every allowed division across all rules, sorted.
func (rs *RuleSet) Divisions() []string {
	seen := make(map[string]struct{})
	for _, r := range rs.Rules {
		for _, d := range r.AllowedDivisions {
			seen[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
