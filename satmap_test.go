package satmap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/repair"
	"github.com/agentstation/satmap/pkg/rules"
	"github.com/agentstation/satmap/pkg/store/memory"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

func fixture() *memory.Store {
	leaf := func(code, name string) taxonomy.Activity {
		return taxonomy.Activity{Code: code, Name: name, Level: taxonomy.LevelSubrama}
	}
	product := func(code, name string) taxonomy.Product {
		return taxonomy.Product{Code: code, Name: name, Level: taxonomy.LevelProduct}
	}
	return memory.New(
		memory.WithActivities(
			leaf("100000", "Cría de animales"),
			leaf("100001", "Cría de aves"),
			leaf("561090", "Servicios de limpieza de inmuebles"),
		),
		memory.WithProducts(
			product("10101501", "Gatos vivos"),
			product("76111500", "Servicios de limpieza de edificios"),
			product("76111501", "Servicios de limpieza de oficinas"),
		),
	)
}

func newEngine(t *testing.T, st *memory.Store, opts ...Option) Engine {
	t.Helper()
	e, err := New(st, opts...)
	require.NoError(t, err)
	return e
}

func TestRun(t *testing.T) {
	st := fixture()
	e := newEngine(t, st)

	var (
		mu        sync.Mutex
		started   []Phase
		completed = map[Phase]string{}
	)
	e.OnPhaseStarted(func(p Phase) {
		mu.Lock()
		defer mu.Unlock()
		started = append(started, p)
	})
	e.OnPhaseCompleted(func(p Phase, summary string, err error) {
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, err)
		completed[p] = summary
	})

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.NamingError)

	assert.Len(t, started, 4)
	assert.Equal(t, PhaseMatch, started[3])
	assert.Len(t, completed, 4)

	// Both activities share one synthetic sector.
	sector, ok := st.Activity("10")
	require.True(t, ok)
	assert.Equal(t, taxonomy.LevelSector, sector.Level)
	for _, code := range []string{"100000", "100001"} {
		a, ok := st.Activity(code)
		require.True(t, ok)
		require.NotNil(t, a.ParentID)
		assert.Equal(t, sector.ID, *a.ParentID)
	}
	assert.Equal(t, 2, result.Activities.Created, "sectors 10 and 56 are synthesized")

	// Product ancestors exist and were named.
	div, ok := st.Product("76000000")
	require.True(t, ok)
	assert.Equal(t, "Servicios de Limpieza y Gestión de Residuos (División 76)", div.Name)
	group, ok := st.Product("76110000")
	require.True(t, ok)
	assert.Equal(t, "Servicios de limpieza de edificios y relacionados (Grupo 7611)", group.Name)

	rels, err := e.Relations(context.Background(), taxonomy.RelationFilter{ActivityCode: "561090", ProductCode: "76111500"})
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.GreaterOrEqual(t, rels[0].Score, 0.70)
	assert.Contains(t, rels[0].Reason, "Limpieza e Higiene")

	assert.Contains(t, result.Summary(), result.RunID)
}

func TestRunIsIdempotent(t *testing.T) {
	st := fixture()
	e := newEngine(t, st)

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	writes := st.Stats().Writes()
	rels, err := e.Relations(context.Background(), taxonomy.RelationFilter{})
	require.NoError(t, err)

	second, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, writes, st.Stats().Writes())
	assert.False(t, second.Activities.HasChanges())
	assert.False(t, second.Products.HasChanges())
	assert.Zero(t, second.Naming.Renamed)

	again, err := e.Relations(context.Background(), taxonomy.RelationFilter{})
	require.NoError(t, err)
	assert.Equal(t, rels, again)
}

func TestRunDryRun(t *testing.T) {
	st := fixture()
	result, err := newEngine(t, st, WithDryRun(true)).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.True(t, result.Activities.HasChanges())
	assert.Zero(t, st.Stats().Writes())
	assert.Zero(t, st.Stats().Upserts)
	assert.Contains(t, result.Summary(), "dry run")
}

func TestRunRepairFailureStopsMatch(t *testing.T) {
	st := fixture()
	st.FailOn("UpdateProductHierarchy", errors.New("permission denied"))

	result, err := newEngine(t, st).Run(context.Background())
	require.Error(t, err)

	var pe *pkgerrors.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhaseRepairProducts.String(), pe.Phase)
	assert.True(t, pkgerrors.IsStoreError(err))
	assert.Nil(t, result.Match)
	assert.Zero(t, st.Stats().Upserts)
}

func TestRunNamingFailureContinues(t *testing.T) {
	st := fixture()
	st.FailOn("RenameProducts", errors.New("statement timeout"))

	result, err := newEngine(t, st).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, result.NamingError, "statement timeout")
	require.NotNil(t, result.Match)
	assert.Positive(t, result.Match.Accepted)
}

func TestRunMalformedGroupDoesNotBlockMatch(t *testing.T) {
	st := fixture()
	require.NoError(t, st.InsertProducts(context.Background(), []taxonomy.Product{
		{Code: "12", Name: "grupo corto", Level: taxonomy.LevelGroup},
	}))

	result, err := newEngine(t, st).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.NamingError)
	require.NotNil(t, result.Naming)
	assert.Equal(t, 1, result.Naming.Skipped)
	require.NotNil(t, result.Match)
	assert.Positive(t, result.Match.Accepted)
}

func TestMatchExtraOptions(t *testing.T) {
	st := fixture()
	e := newEngine(t, st)

	result, err := e.Match(context.Background(), materiality.WithThreshold(1))
	require.NoError(t, err)
	assert.Zero(t, result.Accepted)

	_, err = e.Match(context.Background(), materiality.WithWorkers(0))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	bad := &rules.RuleSet{Rules: []rules.SectorRule{{Sector: "x", ActivityPrefix: "5a"}}}
	_, err = New(fixture(), WithRules(bad))
	assert.Error(t, err)

	_, err = New(fixture(), WithRepairOptions(repair.WithUpdateBatchSize(0)))
	assert.Error(t, err)

	_, err = New(fixture(), WithMatchOptions(materiality.WithThreshold(2)))
	assert.Error(t, err)

	e := newEngine(t, fixture(), WithRules(nil))
	assert.Equal(t, rules.DefaultVersion, e.Rules().Version)
	assert.NoError(t, e.Close())
}
