package materiality

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/store/memory"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

func catalog(extra ...memory.Option) *memory.Store {
	opts := []memory.Option{
		memory.WithActivities(
			leaf("561090", "Servicios de limpieza de inmuebles"),
			leaf("561710", "Servicios de limpieza de edificios"),
			leaf("221110", "Generación de electricidad"),
			taxonomy.Activity{Code: "56", Name: "Servicios de apoyo", Level: taxonomy.LevelSector},
		),
		memory.WithProducts(
			item("76111500", "Servicios de limpieza de edificios"),
			item("76111600", "Servicios de limpieza de ventanas"),
			item("43211500", "Computadoras"),
			taxonomy.Product{Code: "76000000", Name: "Servicios de limpieza", Level: taxonomy.LevelDivision},
		),
	}
	return memory.New(append(opts, extra...)...)
}

func relations(t *testing.T, st *memory.Store) []taxonomy.Relation {
	t.Helper()
	rs, err := st.Relations(context.Background(), taxonomy.RelationFilter{})
	require.NoError(t, err)
	return rs
}

func TestRun(t *testing.T) {
	st := catalog()
	m := newMatcher(t)

	result, err := m.Run(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Activities)
	assert.Equal(t, 4, result.Products)
	assert.Positive(t, result.Accepted)
	assert.Equal(t, 1, result.Unmatched, "221110 has no candidate in division 22")
	assert.Empty(t, result.Relations)
	assert.Contains(t, result.Summary(), "Matched 3 activities")

	stored := relations(t, st)
	assert.Len(t, stored, result.Accepted)
	for _, r := range stored {
		assert.GreaterOrEqual(t, r.Score, 0.70)
		assert.NotEmpty(t, r.Reason)
	}
}

func TestRunKeepsHigherStoredScore(t *testing.T) {
	seeded := taxonomy.Relation{ActivityCode: "561090", ProductCode: "76111500", Score: 1, Reason: "manual"}
	st := catalog(memory.WithRelations(seeded))

	_, err := newMatcher(t).Run(context.Background(), st)
	require.NoError(t, err)

	rs, err := st.Relations(context.Background(), taxonomy.RelationFilter{ActivityCode: "561090", ProductCode: "76111500"})
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, 1.0, rs[0].Score)
	assert.Equal(t, "manual", rs[0].Reason)
}

func TestRunClearRelations(t *testing.T) {
	seeded := taxonomy.Relation{ActivityCode: "561090", ProductCode: "76111500", Score: 1, Reason: "manual"}
	st := catalog(memory.WithRelations(seeded))

	result, err := newMatcher(t, WithClearRelations(true)).Run(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, result.Cleared)

	rs, err := st.Relations(context.Background(), taxonomy.RelationFilter{ActivityCode: "561090", ProductCode: "76111500"})
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Less(t, rs[0].Score, 1.0)
	assert.Contains(t, rs[0].Reason, "Limpieza e Higiene")
}

func TestRunIsIdempotent(t *testing.T) {
	st := catalog()
	m := newMatcher(t)

	_, err := m.Run(context.Background(), st)
	require.NoError(t, err)
	first := relations(t, st)

	_, err = m.Run(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, first, relations(t, st))
}

func TestRunWorkersAgree(t *testing.T) {
	sequential := catalog()
	_, err := newMatcher(t).Run(context.Background(), sequential)
	require.NoError(t, err)

	parallel := catalog()
	_, err = newMatcher(t, WithWorkers(8)).Run(context.Background(), parallel)
	require.NoError(t, err)

	assert.Equal(t, relations(t, sequential), relations(t, parallel))
}

func TestRunDryRun(t *testing.T) {
	st := catalog()
	result, err := newMatcher(t, WithDryRun(true), WithClearRelations(true)).Run(context.Background(), st)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Cleared)
	assert.Len(t, result.Relations, result.Accepted)
	assert.Zero(t, st.Stats().Upserts)
	assert.Zero(t, st.Stats().Clears)
	assert.Empty(t, relations(t, st))
	assert.Contains(t, result.Summary(), "Dry run")

	for i := 1; i < len(result.Relations); i++ {
		prev, cur := result.Relations[i-1], result.Relations[i]
		assert.True(t, prev.ActivityCode < cur.ActivityCode ||
			(prev.ActivityCode == cur.ActivityCode && prev.ProductCode < cur.ProductCode))
	}
}

func TestRunLevelFilter(t *testing.T) {
	st := catalog()
	result, err := newMatcher(t, WithLevels(taxonomy.LevelDivision)).Run(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Products)
}

func TestRunStoreFailure(t *testing.T) {
	st := catalog()
	st.FailOn("UpsertRelations", errors.New("connection reset"))

	_, err := newMatcher(t, WithWorkers(4)).Run(context.Background(), st)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsStoreError(err))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newMatcher(t).Run(ctx, catalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSkipsMalformedActivities(t *testing.T) {
	st := memory.New(
		memory.WithActivities(taxonomy.Activity{Code: "56109", Name: "bad", Level: taxonomy.LevelSubrama}),
		memory.WithProducts(item("76111500", "x")),
	)
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	result, err := newMatcher(t).Run(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Activities)
	assert.True(t, tl.Contains("skipping activity"))
}
