package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/immense/pkg/domain"
)

// allScenes is the topic that receives every event.
const allScenes = "*"

// RenderNotice is the payload of a render event sent over SSE.
type RenderNotice struct {
	Type     domain.EventType `json:"type"`
	RenderID string           `json:"render_id"`
	Scene    string           `json:"scene,omitempty"`
	Meshes   int              `json:"meshes,omitempty"`
	Vertices int              `json:"vertices,omitempty"`
	Faces    int              `json:"faces,omitempty"`
	Duration string           `json:"duration,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// StreamManager fans render events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // scene name or "*" -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for renders of scene, or of every scene when
// scene is empty. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(scene string) (<-chan string, func()) {
	if scene == "" {
		scene = allScenes
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[scene]; !ok {
		sm.subscribers[scene] = make(map[chan<- string]struct{})
	}
	sm.subscribers[scene][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[scene]; ok {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, scene)
			}
		}
	}
}

// Broadcast sends msg to the subscribers of scene and to global subscribers.
// Slow subscribers miss messages rather than block the render.
func (sm *StreamManager) Broadcast(scene string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, topic := range []string{scene, allScenes} {
		for ch := range sm.subscribers[topic] {
			select {
			case ch <- msg:
			default:
				sm.logger.Warn("SSE: client buffer full, dropping message", "scene", scene)
			}
		}
	}
}

// Hooks publishes the start and end of renders of scene.
func (sm *StreamManager) Hooks(scene string) domain.LifecycleHooks {
	publish := func(n RenderNotice) {
		data, err := json.Marshal(n)
		if err != nil {
			return
		}
		sm.Broadcast(scene, string(data))
	}
	return domain.LifecycleHooks{
		OnRenderStart: func(_ context.Context, e *domain.RenderEvent) {
			publish(RenderNotice{Type: e.Type, RenderID: e.RenderID, Scene: scene})
		},
		OnRenderEnd: func(_ context.Context, e *domain.RenderEvent) {
			n := RenderNotice{
				Type:     e.Type,
				RenderID: e.RenderID,
				Scene:    scene,
				Meshes:   e.Meshes,
				Vertices: e.Vertices,
				Faces:    e.Faces,
				Duration: e.Duration.Round(time.Microsecond).String(),
			}
			if e.Err != nil {
				n.Error = e.Err.Error()
			}
			publish(n)
		},
	}
}
