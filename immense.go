package immense

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/immense"

// WriteMeshes streams meshes to w as Wavefront OBJ, one mesh at a time,
// keeping face indices globally consistent across meshes. A malformed mesh
// or a write error aborts the export and is returned; output already
// written stays written.
func WriteMeshes(meshes []*mesh.Mesh, w io.Writer) error {
	return obj.WriteMeshes(meshes, w)
}

// Generator evaluates rules and streams the result to a sink, reporting
// progress through hooks, logs and traces.
type Generator struct {
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	tracer  trace.Tracer
	encOpts []obj.Option
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Generator) {
		g.hooks = g.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithTracer sets the tracer used for render spans. The default comes from
// the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Generator) {
		g.tracer = tracer
	}
}

// WithEncoderOptions passes options to every OBJ encoder the Generator creates.
func WithEncoderOptions(opts ...obj.Option) Option {
	return func(g *Generator) {
		g.encOpts = append(g.encOpts, opts...)
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer(tracerName)
	}
	return g
}

type renderIDKey struct{}

// ContextWithRenderID attaches a render ID that Render reports in events,
// logs and spans. Without one, Render generates a random ID.
func ContextWithRenderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, renderIDKey{}, id)
}

// RenderIDFromContext returns the render ID attached to ctx, if any.
func RenderIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(renderIDKey{}).(string)
	return id, ok && id != ""
}

// Render evaluates r and streams every mesh to w as soon as it is produced.
// Only the mesh being written is held in memory. The context is checked
// between meshes; a canceled render returns ctx.Err() with the meshes
// written so far left in w.
func (g *Generator) Render(ctx context.Context, r rule.Rule, w io.Writer) (obj.Stats, error) {
	id, ok := RenderIDFromContext(ctx)
	if !ok {
		id = uuid.NewString()
		ctx = ContextWithRenderID(ctx, id)
	}
	ctx, span := g.tracer.Start(ctx, "immense.render", trace.WithAttributes(
		attribute.String("immense.render_id", id),
	))
	defer span.End()

	logger := g.logger.With("render_id", id)
	start := time.Now()
	logger.Debug("render started")
	if g.hooks.OnRenderStart != nil {
		g.hooks.OnRenderStart(ctx, &domain.RenderEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventRenderStart, RenderID: id},
		})
	}

	stats, err := g.stream(ctx, id, r, w)

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("immense.meshes", stats.Meshes),
		attribute.Int("immense.vertices", stats.Vertices),
		attribute.Int("immense.faces", stats.Faces),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if g.hooks.OnRenderEnd != nil {
		g.hooks.OnRenderEnd(ctx, &domain.RenderEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRenderEnd, RenderID: id},
			Meshes:    stats.Meshes,
			Vertices:  stats.Vertices,
			Faces:     stats.Faces,
			Duration:  elapsed,
			Err:       err,
		})
	}
	logger.Debug("render finished",
		"meshes", stats.Meshes,
		"vertices", stats.Vertices,
		"duration", elapsed,
		"ok", err == nil,
	)
	return stats, err
}

func (g *Generator) stream(ctx context.Context, id string, r rule.Rule, w io.Writer) (obj.Stats, error) {
	enc := obj.NewEncoder(w, g.encOpts...)
	for m := range rule.Evaluate(r, geom.Identity()) {
		if err := ctx.Err(); err != nil {
			return enc.Stats(), err
		}
		offset := enc.Offset()
		if err := enc.Encode(m); err != nil {
			return enc.Stats(), fmt.Errorf("render %s: %w", id, err)
		}
		if g.hooks.OnMesh != nil {
			g.hooks.OnMesh(ctx, &domain.MeshEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMesh, RenderID: id},
				Index:     enc.Stats().Meshes - 1,
				Offset:    offset,
				Vertices:  m.VertexCount(),
				Faces:     m.FaceCount(),
			})
		}
	}
	if err := enc.Flush(); err != nil {
		return enc.Stats(), fmt.Errorf("render %s: %w", id, err)
	}
	return enc.Stats(), nil
}
