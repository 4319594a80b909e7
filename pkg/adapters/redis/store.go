package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/scene"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "immense:"

// Store implements ports.SceneStore on Redis.
//
// Each scene is a JSON string under prefix+"scene:"+name. A sorted set at
// prefix+"scenes" scores every name with its last save time so List avoids
// SCAN. With a TTL, scenes expire and List drops stale index entries lazily.
type Store struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithTTL expires scenes ttl after their last save. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at addr.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(name string) string {
	return s.prefix + "scene:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "scenes"
}

// Save stores the scene and records it in the index.
func (s *Store) Save(ctx context.Context, name string, sc *scene.Scene) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}

	now := float64(s.now().Unix())
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: now, Member: name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save scene %q: %w", name, err)
	}
	return nil
}

// Load fetches and decodes the scene.
func (s *Store) Load(ctx context.Context, name string) (*scene.Scene, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrSceneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %q: %w", name, err)
	}

	var sc scene.Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode scene %q: %w", name, err)
	}
	return &sc, nil
}

// Delete removes the scene and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete scene %q: %w", name, err)
	}
	return nil
}

// List returns the indexed names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		// Entries saved more than one TTL ago have expired.
		cutoff := s.now().Add(-s.ttl).Unix()
		err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+strconv.FormatInt(cutoff, 10)).Err()
		if err != nil {
			return nil, fmt.Errorf("failed to prune scene index: %w", err)
		}
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	slices.Sort(names)
	return names, nil
}
