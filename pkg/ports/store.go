package ports

import (
	"context"

	"github.com/aretw0/immense/pkg/scene"
)

// SceneStore persists scene documents by name.
type SceneStore interface {
	// Save stores s under name, replacing any previous scene.
	Save(ctx context.Context, name string, s *scene.Scene) error

	// Load retrieves the scene stored under name.
	// Returns domain.ErrSceneNotFound if there is none.
	Load(ctx context.Context, name string) (*scene.Scene, error)

	// Delete removes the scene stored under name. Deleting a missing scene
	// is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored scene names in sorted order.
	List(ctx context.Context) ([]string, error)
}
