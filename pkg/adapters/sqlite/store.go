// Package sqlite implements ports.SceneStore on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/scene"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS scenes (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store keeps scenes as JSON rows.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts the scene.
func (s *Store) Save(ctx context.Context, name string, sc *scene.Scene) error {
	body, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO scenes (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		    body = excluded.body,
		    updated_at = excluded.updated_at`,
		name, string(body), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save scene %q: %w", name, err)
	}
	return nil
}

// Load reads and decodes the scene.
func (s *Store) Load(ctx context.Context, name string) (*scene.Scene, error) {
	var body string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM scenes WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSceneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load scene %q: %w", name, err)
	}

	var sc scene.Scene
	if err := json.Unmarshal([]byte(body), &sc); err != nil {
		return nil, fmt.Errorf("decode scene %q: %w", name, err)
	}
	return &sc, nil
}

// Delete removes the scene row.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM scenes WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete scene %q: %w", name, err)
	}
	return nil
}

// List returns every stored name in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM scenes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list scenes: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
