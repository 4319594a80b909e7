package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/immense/pkg/ports"
	"github.com/aretw0/immense/pkg/scene"
)

// PutScene validates the scene file at path and stores it under name. An
// empty name uses the scene's own name.
func PutScene(ctx context.Context, store ports.SceneStore, name, path string) (string, error) {
	sc, err := scene.Load(path)
	if err != nil {
		return "", err
	}
	if err := sc.Validate(); err != nil {
		return "", err
	}
	if name == "" {
		name = sc.Name
	}
	if err := store.Save(ctx, name, sc); err != nil {
		return "", fmt.Errorf("failed to store %q: %w", name, err)
	}
	return name, nil
}

// GetScene writes the stored scene name to w in format.
func GetScene(ctx context.Context, store ports.SceneStore, name string, format scene.Format, w io.Writer) error {
	sc, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	data, err := scene.Marshal(sc, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ListScenes writes one stored scene name per line.
func ListScenes(ctx context.Context, store ports.SceneStore, w io.Writer) error {
	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}
