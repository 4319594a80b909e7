package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/immense/pkg/adapters/sqlite"
	"github.com/aretw0/immense/pkg/ports"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "scenes.db"))
	ports.RunSceneStoreContract(t, store)
}

func TestSQLiteStore_OpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	s := &scene.Scene{Name: "kept", Entry: "a", Rules: map[string][]scene.Node{"a": {{Shape: "icosphere", Subdivisions: 2}}}}
	require.NoError(t, first.Save(ctx, "kept", s))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, err := second.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rules["a"][0].Subdivisions)

	names, err := second.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, names)
}
