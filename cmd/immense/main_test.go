package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tileYAML = `
name: tile
entry: tile
depth: 2
rules:
  tile:
    - shape: cube
    - ref: tile
      transforms: [{x: 1}, {scale: 0.5}]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "tile.yaml")
	require.NoError(t, os.WriteFile(scenePath, []byte(tileYAML), 0o644))
	objPath := filepath.Join(dir, "tile.obj")

	t.Setenv("IMMENSE_LOG_LEVEL", "error")
	t.Setenv("IMMENSE_STORE", "sqlite")
	t.Setenv("IMMENSE_SQLITE_PATH", filepath.Join(dir, "scenes.db"))

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"version", []string{"version"}, "immense version"},
		{"validate", []string{"validate", scenePath}, "Scene is valid! ✅ (3 meshes)"},
		{"render", []string{"render", scenePath, "-o", objPath}, ""},
		{"inspect", []string{"inspect", objPath}, "| Vertices | 24 |"},
		{"describe", []string{"describe", scenePath}, "| Meshes | 3 |"},
		{"graph", []string{"graph", scenePath}, "tile --> tile"},
		{"scenes put", []string{"scenes", "put", scenePath}, `Stored "tile"`},
		{"scenes list", []string{"scenes", "list"}, "tile\n"},
		{"scenes get", []string{"scenes", "get", "tile", "--format", "json"}, `"entry": "tile"`},
		{"scenes delete", []string{"scenes", "delete", "tile"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err, out)
			assert.Contains(t, out, tt.contains)
		})
	}

	out, err := run(t, "scenes", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entry: main\nrules:\n  main:\n    - shape: blob\n"), 0o644))
	t.Setenv("IMMENSE_LOG_LEVEL", "error")

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"invalid scene", []string{"validate", bad}, "rules.main[0].shape"},
		{"unknown store", []string{"scenes", "list", "--store", "etcd"}, ""},
		{"missing argument", []string{"render"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			assert.Error(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}
