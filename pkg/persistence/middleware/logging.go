package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/ports"
	"github.com/aretw0/immense/pkg/scene"
)

type loggingMiddleware struct {
	next   ports.SceneStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level and failures at
// warn level. A missing scene is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SceneStore) ports.SceneStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, name string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if name != "" {
		attrs = append(attrs, "scene", name)
	}
	if err != nil && !errors.Is(err, domain.ErrSceneNotFound) {
		m.logger.WarnContext(ctx, "store_failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, sc *scene.Scene) error {
	start := time.Now()
	err := m.next.Save(ctx, name, sc)
	m.log(ctx, "save", name, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (*scene.Scene, error) {
	start := time.Now()
	sc, err := m.next.Load(ctx, name)
	m.log(ctx, "load", name, start, err)
	return sc, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.log(ctx, "delete", name, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return names, err
}
