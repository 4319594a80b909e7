package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/ports"
	"github.com/aretw0/immense/pkg/scene"
)

// MaxNameLength bounds scene names accepted by the validation middleware.
const MaxNameLength = 128

type validationMiddleware struct {
	next ports.SceneStore
}

// NewValidationMiddleware creates a middleware that refuses to save invalid
// scenes or names. Both failures match domain.ErrInvalidScene.
func NewValidationMiddleware() Middleware {
	return func(next ports.SceneStore) ports.SceneStore {
		return &validationMiddleware{next: next}
	}
}

// ValidateName reports names that cannot be used as store keys or URL
// path segments.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty scene name", domain.ErrInvalidScene)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: scene name longer than %d bytes", domain.ErrInvalidScene, MaxNameLength)
	case strings.ContainsAny(name, "/\\ \t\n"):
		return fmt.Errorf("%w: scene name %q contains a slash or whitespace", domain.ErrInvalidScene, name)
	}
	return nil
}

func (m *validationMiddleware) Save(ctx context.Context, name string, sc *scene.Scene) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	return m.next.Save(ctx, name, sc)
}

func (m *validationMiddleware) Load(ctx context.Context, name string) (*scene.Scene, error) {
	return m.next.Load(ctx, name)
}

func (m *validationMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
