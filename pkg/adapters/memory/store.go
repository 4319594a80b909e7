package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/scene"
)

// Store implements ports.SceneStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save keeps an encoded copy of s, so later changes to s do not leak in.
func (s *Store) Save(ctx context.Context, name string, sc *scene.Scene) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = data
	return nil
}

// Load decodes a fresh copy of the stored scene.
func (s *Store) Load(ctx context.Context, name string) (*scene.Scene, error) {
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSceneNotFound
	}

	var sc scene.Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &sc, nil
}

// Delete removes the scene.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
