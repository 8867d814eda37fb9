package materiality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/rules"
	"github.com/agentstation/satmap/pkg/similarity"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

func leaf(code, name string) taxonomy.Activity {
	return taxonomy.Activity{Code: code, Name: name, Level: taxonomy.LevelSubrama}
}

func item(code, name string) taxonomy.Product {
	return taxonomy.Product{Code: code, Name: name, Level: taxonomy.LevelClass}
}

func newMatcher(t *testing.T, opts ...Option) *Matcher {
	t.Helper()
	m, err := New(rules.Default(), opts...)
	require.NoError(t, err)
	return m
}

func relationFor(out Outcome, product string) (taxonomy.Relation, bool) {
	for _, r := range out.Relations {
		if r.ProductCode == product {
			return r, true
		}
	}
	return taxonomy.Relation{}, false
}

func TestMatchCleaningScenario(t *testing.T) {
	m := newMatcher(t)
	ix := NewDivisionIndex([]taxonomy.Product{
		item("76111500", "Servicios de limpieza de edificios"),
		item("43211500", "Computadoras"),
		item("80121600", "Servicios de derecho mercantil"),
	})

	out := m.MatchActivity(leaf("561090", "Servicios de limpieza de inmuebles"), ix)

	require.NotNil(t, out.Rule)
	assert.Equal(t, "Limpieza e Higiene", out.Rule.Sector)

	rel, ok := relationFor(out, "76111500")
	require.True(t, ok, "cleaning services must be accepted")
	assert.GreaterOrEqual(t, rel.Score, constants.AcceptanceThreshold)
	assert.Contains(t, rel.Reason, "Limpieza e Higiene")
	assert.Equal(t, constants.RuleHierarchyScore, rel.Breakdown.Hierarchy)
	assert.Equal(t, constants.ServiceUnitScore, rel.Breakdown.Unit)

	_, ok = relationFor(out, "43211500")
	assert.False(t, ok)
	assert.Equal(t, 2, out.Pruned)
	assert.Equal(t, 1, out.Candidates)
}

func TestMatchDivisionPrefix(t *testing.T) {
	m := newMatcher(t)
	ix := NewDivisionIndex([]taxonomy.Product{
		item("43211500", "aaaa"),
		item("43211600", "zzzz"),
	})

	out := m.MatchActivity(leaf("431110", "aaaa"), ix)
	assert.Nil(t, out.Rule)
	assert.Equal(t, 2, out.Candidates)
	assert.Equal(t, 1, out.Rejected)

	require.Len(t, out.Relations, 1)
	rel := out.Relations[0]
	assert.Equal(t, "43211500", rel.ProductCode)
	assert.Equal(t, "division 43 matches activity prefix", rel.Reason)
	assert.Equal(t, constants.PrefixHierarchyScore, rel.Breakdown.Hierarchy)
	assert.Equal(t, constants.GoodsUnitScore, rel.Breakdown.Unit)

	want := 0.50*0.7 + 0.35*similarity.JaroWinkler("aaaa ", "aaaa") + 0.15*0.5
	assert.InDelta(t, want, rel.Score, 1e-12)
}

func TestThresholdEnforced(t *testing.T) {
	ix := NewDivisionIndex([]taxonomy.Product{item("43211500", "aaaa")})
	act := leaf("431110", "aaaa")

	assert.True(t, newMatcher(t).MatchActivity(act, ix).Matched())

	strict := newMatcher(t, WithThreshold(0.8))
	out := strict.MatchActivity(act, ix)
	assert.False(t, out.Matched())
	assert.Equal(t, 1, out.Rejected)

	for _, r := range newMatcher(t, WithThreshold(0)).MatchActivity(act, ix).Relations {
		assert.GreaterOrEqual(t, r.Score, 0.0)
	}
}

func TestPruneFloorOption(t *testing.T) {
	ix := NewDivisionIndex([]taxonomy.Product{
		item("43211500", "aaaa"),
		item("76111500", "aaaa"),
	})
	m := newMatcher(t, WithPruneFloor(0.8))

	prefixOnly := m.MatchActivity(leaf("431110", "aaaa"), ix)
	assert.Zero(t, prefixOnly.Candidates)
	assert.Equal(t, 2, prefixOnly.Pruned)

	ruled := m.MatchActivity(leaf("561090", "aaaa"), ix)
	assert.Equal(t, 1, ruled.Candidates)
}

// Scoring every product without the division index or the pruning floor
// must accept exactly the same relations.
func TestPruningIsSound(t *testing.T) {
	products := []taxonomy.Product{
		item("76111500", "Servicios de limpieza de edificios"),
		item("76111600", "Limpieza de ventanas"),
		item("47131700", "Suministros de limpieza"),
		item("56101500", "Muebles de oficina"),
		item("56111500", "Servicios de limpieza"),
		item("43211500", "Computadoras"),
		item("80121600", "Servicios de derecho mercantil"),
		item("95121500", "Servicios de limpieza de inmuebles"),
	}
	acts := []taxonomy.Activity{
		leaf("561090", "Servicios de limpieza de inmuebles"),
		leaf("541110", "Bufetes jurídicos"),
		leaf("431110", "Comercio al por mayor de computadoras"),
		leaf("951110", "Servicios de limpieza de inmuebles"),
	}

	m := newMatcher(t)
	ix := NewDivisionIndex(products)
	w := DefaultWeights()

	for _, act := range acts {
		out := m.MatchActivity(act, ix)
		got := map[string]bool{}
		for _, r := range out.Relations {
			got[r.ProductCode] = true
		}

		rule, hasRule := rules.Default().Match(act.Code)
		text := sample(strings.ToLower(act.Text()), constants.SemanticSampleLength)
		for _, p := range products {
			h := 0.0
			switch {
			case hasRule && rule.Allows(p.Division()):
				h = 1.0
			case p.Division() == act.Code[:2]:
				h = 0.7
			}
			score := w.Score(taxonomy.Breakdown{
				Hierarchy: h,
				Semantic:  similarity.JaroWinkler(text, sample(strings.ToLower(p.Name), constants.SemanticSampleLength)),
				Unit:      unitScore(p.Division()),
			})
			assert.Equal(t, score >= constants.AcceptanceThreshold, got[p.Code],
				"activity %s product %s score %.4f", act.Code, p.Code, score)
		}
	}
}

func TestMatchDeterministicOrder(t *testing.T) {
	ix := NewDivisionIndex([]taxonomy.Product{
		item("76111600", "Servicios de limpieza de ventanas"),
		item("47131700", "Servicios de limpieza general"),
		item("76111500", "Servicios de limpieza de edificios"),
	})
	m := newMatcher(t)
	act := leaf("561090", "Servicios de limpieza de inmuebles")

	first := m.MatchActivity(act, ix)
	second := m.MatchActivity(act, ix)
	assert.Equal(t, first, second)

	for i := 1; i < len(first.Relations); i++ {
		assert.Less(t, first.Relations[i-1].ProductCode, first.Relations[i].ProductCode)
	}
}

func TestNilRuleSet(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	out := m.MatchActivity(leaf("561090", "x"), NewDivisionIndex([]taxonomy.Product{item("76111500", "x")}))
	assert.Nil(t, out.Rule)
	assert.Equal(t, 1, out.Pruned)
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"threshold above one", WithThreshold(1.5)},
		{"negative threshold", WithThreshold(-0.1)},
		{"prune floor", WithPruneFloor(2)},
		{"weights sum", WithWeights(Weights{Hierarchy: 0.5, Semantic: 0.3, Unit: 0.1})},
		{"negative weight", WithWeights(Weights{Hierarchy: 1.2, Semantic: -0.2})},
		{"zero workers", WithWorkers(0)},
		{"too many workers", WithWorkers(constants.MaxWorkers + 1)},
		{"sample length", WithSampleLength(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(rules.Default(), tt.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	_, err := New(rules.Default(), WithWeights(Weights{Hierarchy: 0.6, Semantic: 0.3, Unit: 0.1}))
	assert.NoError(t, err)
}

func TestDivisionIndex(t *testing.T) {
	ix := NewDivisionIndex([]taxonomy.Product{
		item("76111600", "b"),
		item("76111500", "a"),
		item("4321", "malformed"),
		{Code: "76000000", Name: "division", Level: taxonomy.LevelDivision},
		item("47131700", "c"),
	}, taxonomy.LevelClass)

	assert.Equal(t, 3, ix.Len())
	assert.Len(t, ix.Skipped(), 1)
	assert.Equal(t, []string{"47", "76"}, ix.Divisions())

	var codes []string
	for _, p := range ix.Candidates([]string{"76", "47", "76", "99"}) {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []string{"47131700", "76111500", "76111600"}, codes)
}

func TestMatchSamplesLongProductNames(t *testing.T) {
	m := newMatcher(t)
	name := "Servicios de limpieza " + strings.Repeat("x", 150)
	require.Greater(t, len([]rune(name)), constants.SemanticSampleLength)
	ix := NewDivisionIndex([]taxonomy.Product{item("76111500", name)})

	act := leaf("561090", "Servicios de limpieza")
	out := m.MatchActivity(act, ix)

	rel, ok := relationFor(out, "76111500")
	require.True(t, ok)
	text := strings.ToLower(act.Text())
	want := similarity.JaroWinkler(text, sample(strings.ToLower(name), constants.SemanticSampleLength))
	assert.InDelta(t, want, rel.Breakdown.Semantic, 1e-12)
	assert.NotEqual(t, similarity.JaroWinkler(text, strings.ToLower(name)), rel.Breakdown.Semantic)
}

func TestSample(t *testing.T) {
	assert.Equal(t, "abc", sample("abcdef", 3))
	assert.Equal(t, "ab", sample("ab", 3))
	assert.Equal(t, "señ", sample("señor", 3))
}

