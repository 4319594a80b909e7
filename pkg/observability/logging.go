package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/immense/pkg/domain"
)

// LogHooks logs render starts and ends at info level and every mesh at
// debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRenderStart: func(ctx context.Context, e *domain.RenderEvent) {
			logger.InfoContext(ctx, "render_start", "render_id", e.RenderID)
		},
		OnMesh: func(ctx context.Context, e *domain.MeshEvent) {
			logger.DebugContext(ctx, "mesh",
				"render_id", e.RenderID,
				"index", e.Index,
				"offset", e.Offset,
				"vertices", e.Vertices,
			)
		},
		OnRenderEnd: func(ctx context.Context, e *domain.RenderEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "render_failed",
					"render_id", e.RenderID,
					"meshes", e.Meshes,
					"error", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "render_end",
				"render_id", e.RenderID,
				"meshes", e.Meshes,
				"vertices", e.Vertices,
				"faces", e.Faces,
				"duration", e.Duration,
			)
		},
	}
}
