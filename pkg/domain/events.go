package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRenderStart EventType = "render_start"
	EventMesh        EventType = "mesh"
	EventRenderEnd   EventType = "render_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RenderID  string    `json:"render_id,omitempty"`
}

// RenderEvent marks the start or the end of a render.
// Totals are only filled on EventRenderEnd.
type RenderEvent struct {
	EventBase
	Meshes   int           `json:"meshes"`
	Vertices int           `json:"vertices"`
	Faces    int           `json:"faces"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// MeshEvent reports one mesh written to the output.
type MeshEvent struct {
	EventBase
	Index    int `json:"index"`  // position in the output, 0-based
	Offset   int `json:"offset"` // global vertex offset before this mesh
	Vertices int `json:"vertices"`
	Faces    int `json:"faces"`
}

// LifecycleHooks defines callbacks for render observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnRenderStart func(context.Context, *RenderEvent)
	OnMesh        func(context.Context, *MeshEvent)
	OnRenderEnd   func(context.Context, *RenderEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRenderStart: chain(h.OnRenderStart, other.OnRenderStart),
		OnMesh:        chain(h.OnMesh, other.OnMesh),
		OnRenderEnd:   chain(h.OnRenderEnd, other.OnRenderEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
