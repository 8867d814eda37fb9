// Package cmdtest provides helpers for testing satmap commands against an
// in-memory catalog.
package cmdtest

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/internal/appcontext"
	"github.com/agentstation/satmap/pkg/store/memory"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Catalog returns a small store with two activity sectors and one product
// division, none of them reconciled yet.
func Catalog() *memory.Store {
	leaf := func(code, name string) taxonomy.Activity {
		return taxonomy.Activity{Code: code, Name: name, Level: taxonomy.LevelSubrama}
	}
	product := func(code, name string) taxonomy.Product {
		return taxonomy.Product{Code: code, Name: name, Level: taxonomy.LevelProduct}
	}
	return memory.New(
		memory.WithActivities(
			leaf("100000", "Cría de animales"),
			leaf("561090", "Servicios de limpieza de inmuebles"),
		),
		memory.WithProducts(
			product("76111500", "Servicios de limpieza de edificios"),
			product("76111501", "Servicios de limpieza de oficinas"),
		),
	)
}

// App returns a mock application whose engines run over st and whose
// output format is format.
func App(st *memory.Store, format string) *appcontext.Mock {
	return &appcontext.Mock{
		EngineFunc: func(_ context.Context, opts ...satmap.Option) (satmap.Engine, error) {
			return satmap.New(st, opts...)
		},
		OutputFormatFunc: func() string { return format },
	}
}

// Execute runs cmd with args and returns what it wrote to stdout.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := ExecuteWithStderr(t, cmd, args...)
	return stdout, err
}

// ExecuteWithStderr runs cmd with args and returns stdout and stderr separately.
func ExecuteWithStderr(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// MustExecute is Execute failing the test on error.
func MustExecute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	out, err := Execute(t, cmd, args...)
	require.NoError(t, err, out)
	return out
}
