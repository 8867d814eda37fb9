package relations

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/satmap/internal/cmd/cmdtest"
	"github.com/agentstation/satmap/pkg/store/memory"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

func seeded() *memory.Store {
	return memory.New(memory.WithRelations(
		taxonomy.Relation{ActivityCode: "561090", ProductCode: "76111500", Score: 0.91, Reason: "sector rule matched"},
		taxonomy.Relation{ActivityCode: "561090", ProductCode: "76111501", Score: 0.75, Reason: "division matched"},
		taxonomy.Relation{ActivityCode: "100000", ProductCode: "10101501", Score: 0.83, Reason: "division matched"},
	))
}

func decode(t *testing.T, out string) []taxonomy.Relation {
	t.Helper()
	var rels []taxonomy.Relation
	require.NoError(t, json.Unmarshal([]byte(out), &rels))
	return rels
}

func TestRelationsFilters(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		products []string
	}{
		{"all by score", nil, []string{"76111500", "10101501", "76111501"}},
		{"by activity", []string{"--activity", "561090"}, []string{"76111500", "76111501"}},
		{"by product", []string{"-p", "10101501"}, []string{"10101501"}},
		{"min score", []string{"--min-score", "0.8"}, []string{"76111500", "10101501"}},
		{"limit", []string{"--limit", "1"}, []string{"76111500"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := cmdtest.MustExecute(t, NewCommand(cmdtest.App(seeded(), "json")), tt.args...)
			var got []string
			for _, r := range decode(t, out) {
				got = append(got, r.ProductCode)
			}
			assert.Equal(t, tt.products, got)
		})
	}
}

func TestRelationsEmptyIsList(t *testing.T) {
	out := cmdtest.MustExecute(t, NewCommand(cmdtest.App(memory.New(), "json")))
	assert.Equal(t, "[]\n", out)
}

func TestRelationsWideShowsReason(t *testing.T) {
	out := cmdtest.MustExecute(t, NewCommand(cmdtest.App(seeded(), "wide")), "--activity", "561090")
	assert.Contains(t, out, "sector rule matched")

	out = cmdtest.MustExecute(t, NewCommand(cmdtest.App(seeded(), "table")), "--activity", "561090")
	assert.NotContains(t, out, "sector rule matched")
	assert.Contains(t, out, "0.9100")
}

func TestRelationsRejectsMinScore(t *testing.T) {
	_, err := cmdtest.Execute(t, NewCommand(cmdtest.App(seeded(), "json")), "--min-score", "1.5")
	assert.Error(t, err)
}
