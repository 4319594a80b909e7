package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractScene(name string) *scene.Scene {
	return &scene.Scene{
		Name:  name,
		Seed:  3,
		Depth: 2,
		Entry: "main",
		Rules: map[string][]scene.Node{
			"main": {
				{Shape: "cube", Transforms: []map[string]any{{"scale": 0.5}}},
				{Ref: "main", Replicate: &scene.Replicate{Count: 2, Step: []map[string]any{{"x": 1.0}}}},
			},
		},
	}
}

// RunSceneStoreContract runs a suite of tests to verify that a SceneStore
// implementation adheres to the interface contract.
func RunSceneStoreContract(t *testing.T, store SceneStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Save
		want := contractScene(name)
		require.NoError(t, store.Save(ctx, name, want), "Save should not return error")

		// 2. Load
		got, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Entry, got.Entry)
		assert.Equal(t, want.Seed, got.Seed)
		assert.Equal(t, want.Depth, got.Depth)
		require.Len(t, got.Rules["main"], 2)
		assert.Equal(t, "cube", got.Rules["main"][0].Shape)
		require.NotNil(t, got.Rules["main"][1].Replicate)
		assert.Equal(t, 2, got.Rules["main"][1].Replicate.Count)
		assert.NoError(t, got.Validate())
	})

	t.Run("Save Replaces", func(t *testing.T) {
		s := contractScene(name)
		s.Description = "second version"
		require.NoError(t, store.Save(ctx, name, s))

		got, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "second version", got.Description)
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		got, err := store.Load(ctx, name)
		require.NoError(t, err)
		got.Entry = "mutated"

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "main", again.Entry)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSceneNotFound)
	})

	t.Run("List", func(t *testing.T) {
		a, b := name+"-a", name+"-b"
		require.NoError(t, store.Save(ctx, b, contractScene(b)))
		require.NoError(t, store.Save(ctx, a, contractScene(a)))
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsNonDecreasing(t, names)
	})

	t.Run("Names Resembling Internal Keys", func(t *testing.T) {
		names := []string{"index", "scenes", "scene:index"}
		for _, n := range names {
			require.NoError(t, store.Save(ctx, n, contractScene(n)), "Save %q", n)
		}
		defer func() {
			for _, n := range names {
				_ = store.Delete(ctx, n)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)
		for _, n := range names {
			assert.Contains(t, listed, n)
			got, err := store.Load(ctx, n)
			require.NoError(t, err)
			assert.Equal(t, n, got.Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSceneNotFound, "Load after Delete should return ErrSceneNotFound")

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, name)

		assert.NoError(t, store.Delete(ctx, name), "Delete of a missing scene should succeed")
	})
}
