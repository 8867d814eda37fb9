package namer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/store/memory"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

func product(code string, level taxonomy.ProductLevel, parent, name string) taxonomy.Product {
	return taxonomy.Product{Code: code, Level: level, ParentCode: parent, Name: name}
}

func TestPlanDivision(t *testing.T) {
	nodes := []taxonomy.Product{
		product("76000000", taxonomy.LevelDivision, "", "[SYNTHETIC] DIVISION - 76000000"),
		product("99000000", taxonomy.LevelDivision, "", "[SYNTHETIC] DIVISION - 99000000"),
		product("98000000", taxonomy.LevelDivision, "", "Legacy name"),
	}

	renames, skipped := Plan(nodes, nil)
	assert.Empty(t, skipped)
	require.Len(t, renames, 2)
	assert.Equal(t, "76000000", renames[0].Code)
	assert.Equal(t, "Servicios de Limpieza y Gestión de Residuos (División 76)", renames[0].To)
	assert.Equal(t, "99000000", renames[1].Code)
	assert.Equal(t, "División No Identificada - 99000000", renames[1].To)
}

func TestPlanGroup(t *testing.T) {
	tests := []struct {
		name    string
		group   taxonomy.Product
		classes []taxonomy.Product
		want    string
	}{
		{
			name:  "first class cut at slash",
			group: product("76110000", taxonomy.LevelGroup, "76000000", "[SYNTHETIC] GROUP - 76110000"),
			classes: []taxonomy.Product{
				product("76111500", taxonomy.LevelClass, "76110000", "Servicios de limpieza general / edificios"),
			},
			want: "Servicios de limpieza general y relacionados (Grupo 7611)",
		},
		{
			name:  "lowest class code wins",
			group: product("10100000", taxonomy.LevelGroup, "10000000", "x"),
			classes: []taxonomy.Product{
				product("10101600", taxonomy.LevelClass, "10100000", "Pájaros y aves de corral"),
				product("10101500", taxonomy.LevelClass, "10100000", "Animales de granja (vivos)"),
			},
			want: "Animales de granja y relacionados (Grupo 1010)",
		},
		{
			name:  "short base falls back to second class",
			group: product("43210000", taxonomy.LevelGroup, "43000000", "x"),
			classes: []taxonomy.Product{
				product("43211500", taxonomy.LevelClass, "43210000", "PCs, computadoras"),
				product("43211600", taxonomy.LevelClass, "43210000", "Accesorios de computador"),
			},
			want: "Accesorios de computador y relacionados (Grupo 4321)",
		},
		{
			name:  "short base kept without second class",
			group: product("43220000", taxonomy.LevelGroup, "43000000", "x"),
			classes: []taxonomy.Product{
				product("43221500", taxonomy.LevelClass, "43220000", "Fax (equipos)"),
			},
			want: "Fax y relacionados (Grupo 4322)",
		},
		{
			name:  "no classes uses division name",
			group: product("78180000", taxonomy.LevelGroup, "78000000", "x"),
			want:  "Servicios de Transporte y Almacenaje - Subgrupo 18",
		},
		{
			name:  "no classes unknown division",
			group: product("99120000", taxonomy.LevelGroup, "99000000", "x"),
			want:  "Categoría - Subgrupo 12",
		},
		{
			name:  "whitespace collapsed",
			group: product("50200000", taxonomy.LevelGroup, "50000000", "x"),
			classes: []taxonomy.Product{
				product("50201700", taxonomy.LevelClass, "50200000", "  Café   y  té  , otros"),
			},
			want: "Café y té y relacionados (Grupo 5020)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renames, _ := Plan([]taxonomy.Product{tt.group}, tt.classes)
			require.Len(t, renames, 1)
			assert.Equal(t, tt.want, renames[0].To)
			assert.Equal(t, tt.group.Name, renames[0].From)
		})
	}
}

func TestPlanSkipsUnchanged(t *testing.T) {
	nodes := []taxonomy.Product{
		product("76000000", taxonomy.LevelDivision, "", "Servicios de Limpieza y Gestión de Residuos (División 76)"),
		product("76110000", taxonomy.LevelGroup, "76000000", "Servicios de Limpieza y Gestión de Residuos - Subgrupo 11"),
	}
	renames, skipped := Plan(nodes, nil)
	assert.Empty(t, renames)
	assert.Empty(t, skipped)
}

func TestPlanIgnoresOtherLevels(t *testing.T) {
	nodes := []taxonomy.Product{
		product("76111500", taxonomy.LevelClass, "76110000", "Limpieza"),
		product("76111501", taxonomy.LevelProduct, "76111500", "Limpieza de oficinas"),
		product("12", taxonomy.LevelProduct, "", "Corto"),
	}
	renames, skipped := Plan(nodes, nil)
	assert.Empty(t, renames)
	assert.Empty(t, skipped)
}

func TestPlanSkipsMalformedCodes(t *testing.T) {
	nodes := []taxonomy.Product{
		product("12", taxonomy.LevelGroup, "", "grupo corto"),
		product("7611", taxonomy.LevelGroup, "76000000", "grupo"),
		product("7", taxonomy.LevelDivision, "", "[SYNTHETIC] DIVISION - 7"),
		product("76AB0000", taxonomy.LevelGroup, "76000000", "grupo"),
		product("76000000", taxonomy.LevelDivision, "", "[SYNTHETIC] DIVISION - 76000000"),
	}

	var (
		renames []taxonomy.Rename
		skipped []error
	)
	require.NotPanics(t, func() { renames, skipped = Plan(nodes, nil) })
	require.Len(t, renames, 1)
	assert.Equal(t, "76000000", renames[0].Code)
	require.Len(t, skipped, 4)
	for _, err := range skipped {
		assert.True(t, pkgerrors.IsInvalidCode(err), "got %v", err)
	}
}

func TestNormalizeComposes(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "Caf\u00e9", normalize("Cafe\u0301"))
	assert.Equal(t, "a b", normalize(" a \t\n b "))
}

func TestSplit(t *testing.T) {
	nodes, classes := Split([]taxonomy.Product{
		product("76000000", taxonomy.LevelDivision, "", ""),
		product("76110000", taxonomy.LevelGroup, "76000000", ""),
		product("76111500", taxonomy.LevelClass, "76110000", ""),
		product("76111501", taxonomy.LevelProduct, "76111500", ""),
	})
	assert.Len(t, nodes, 2)
	assert.Len(t, classes, 1)
}

func catalog() *memory.Store {
	return memory.New(memory.WithProducts(
		product("76000000", taxonomy.LevelDivision, "", "[SYNTHETIC] DIVISION - 76000000"),
		product("76110000", taxonomy.LevelGroup, "76000000", "[SYNTHETIC] GROUP - 76110000"),
		product("76111500", taxonomy.LevelClass, "76110000", "Servicios de limpieza de edificios"),
		product("76111501", taxonomy.LevelProduct, "76111500", "Limpieza de oficinas"),
	))
}

func TestApply(t *testing.T) {
	st := catalog()
	n := New(st)

	result, err := n.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 2, result.Renamed)
	assert.Contains(t, result.Summary(), "Renamed 2 of 2")

	div, ok := st.Product("76000000")
	require.True(t, ok)
	assert.Equal(t, "Servicios de Limpieza y Gestión de Residuos (División 76)", div.Name)

	group, ok := st.Product("76110000")
	require.True(t, ok)
	assert.Equal(t, "Servicios de limpieza de edificios y relacionados (Grupo 7611)", group.Name)

	// A second pass has nothing left to rename.
	again, err := n.Apply(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again.Renamed)
}

func TestApplySkipsMalformedNodes(t *testing.T) {
	st := catalog()
	require.NoError(t, st.InsertProducts(context.Background(), []taxonomy.Product{
		product("12", taxonomy.LevelGroup, "", "grupo corto"),
	}))

	result, err := New(st).Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Nodes)
	assert.Equal(t, 2, result.Renamed)
	assert.Equal(t, 1, result.Skipped)
	assert.Contains(t, result.Summary(), "1 malformed skipped")

	short, ok := st.Product("12")
	require.True(t, ok)
	assert.Equal(t, "grupo corto", short.Name)
}

func TestApplyDryRun(t *testing.T) {
	st := catalog()
	result, err := New(st, WithDryRun(true), WithBatchSize(1)).Apply(context.Background())
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.Renamed)
	assert.Contains(t, result.Summary(), "Dry run")
	assert.Zero(t, st.Stats().Renames)

	div, _ := st.Product("76000000")
	assert.Equal(t, "[SYNTHETIC] DIVISION - 76000000", div.Name)
}

func TestApplyStoreFailure(t *testing.T) {
	st := catalog()
	st.FailOn("RenameProducts", errors.New("permission denied"))

	_, err := New(st).Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestDivisionName(t *testing.T) {
	name, ok := DivisionName("43")
	assert.True(t, ok)
	assert.Equal(t, "Tecnologías de Información y Telecomunicaciones", name)

	_, ok = DivisionName("99")
	assert.False(t, ok)
	assert.Len(t, divisionNames, 57)
}
