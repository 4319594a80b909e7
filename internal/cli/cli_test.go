package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/immense/internal/logging"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tileYAML = `
name: tile
entry: tile
depth: 3
rules:
  tile:
    - shape: cube
      transforms: [{translate: [0.25, 0.25, 0]}, {scale: 0.4}]
    - ref: tile
      transforms: [{translate: [0.25, -0.25, 0]}, {scale: 0.5}]
`

const rowLua = `return cube():tf(replicate(3, tx(1.5)))`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func TestRender(t *testing.T) {
	logger := logging.NewNop()

	tests := []struct {
		name     string
		file     string
		content  string
		compile  CompileOptions
		names    bool
		meshes   int
		contains []string
	}{
		{name: "scene", file: "tile.yaml", content: tileYAML, meshes: 4, contains: []string{"# source: tile.yaml"}},
		{name: "depth override", file: "tile.yaml", content: tileYAML, compile: CompileOptions{Depth: intp(1)}, meshes: 2},
		{name: "seed override", file: "tile.yaml", content: tileYAML, compile: CompileOptions{Seed: int64p(9)}, meshes: 4},
		{name: "names", file: "tile.yaml", content: tileYAML, names: true, meshes: 4, contains: []string{"o tile_0\n", "o tile_3\n"}},
		{name: "lua", file: "row.lua", content: rowLua, meshes: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := Render(context.Background(), RenderOptions{
				Path:      writeFile(t, tt.file, tt.content),
				Compile:   tt.compile,
				Names:     tt.names,
				Stdout:    &stdout,
				Stderr:    &stderr,
			}, logger)
			require.NoError(t, err)

			doc, err := obj.Decode(strings.NewReader(stdout.String()))
			require.NoError(t, err)
			assert.Len(t, doc.Vertices, tt.meshes*8)
			for _, c := range tt.contains {
				assert.Contains(t, stdout.String(), c)
			}
			assert.Contains(t, stderr.String(), ">>> Rendered")
		})
	}
}

func TestRender_ToFile(t *testing.T) {
	in := writeFile(t, "tile.yaml", tileYAML)
	out := filepath.Join(t.TempDir(), "tile.obj")
	var stdout, stderr bytes.Buffer

	err := Render(context.Background(), RenderOptions{Path: in, Output: out, Precision: 3, Stdout: &stdout, Stderr: &stderr}, logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), out)

	var report bytes.Buffer
	require.NoError(t, Inspect(out, &report))
	assert.Contains(t, report.String(), "| Vertices | 32 |")
	assert.Contains(t, report.String(), "| Faces | 24 |")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts RenderOptions
	}{
		{"missing file", RenderOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")}},
		{"invalid scene", RenderOptions{Path: writeFile(t, "bad.yaml", "entry: x\n")}},
		{"bad script", RenderOptions{Path: writeFile(t, "bad.lua", "return 1")}},
		{"watch without output", RenderOptions{Path: writeFile(t, "tile.yaml", tileYAML), Watch: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Stdout = &bytes.Buffer{}
			tt.opts.Stderr = &bytes.Buffer{}
			assert.Error(t, Render(context.Background(), tt.opts, logging.NewNop()))
		})
	}
}

func TestValidate(t *testing.T) {
	res, err := Validate(writeFile(t, "tile.yaml", tileYAML+"  spare:\n    - shape: quad\n"), logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Meshes)
	assert.Equal(t, []string{"spare"}, res.Unreachable)

	res, err = Validate(writeFile(t, "row.lua", rowLua), logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Meshes)

	_, err = Validate(writeFile(t, "bad.yaml", "entry: main\nrules:\n  main:\n    - ref: gone\n    - shape: blob\n"), logging.NewNop())
	require.Error(t, err)
	assert.Len(t, scene.ValidationErrors(err), 2)
}

func TestDescribeAndGraph(t *testing.T) {
	path := writeFile(t, "tile.yaml", tileYAML)

	var buf bytes.Buffer
	require.NoError(t, Describe(path, &buf, logging.NewNop()))
	assert.Contains(t, buf.String(), "# tile")
	assert.Contains(t, buf.String(), "| Meshes | 4 |")

	buf.Reset()
	require.NoError(t, Graph(path, &buf))
	assert.Contains(t, buf.String(), "tile --> tile")

	assert.Error(t, Describe(writeFile(t, "row.lua", rowLua), &buf, logging.NewNop()))
}

func TestIsScript(t *testing.T) {
	assert.True(t, IsScript("a/b.lua"))
	assert.True(t, IsScript("B.LUA"))
	assert.False(t, IsScript("scene.yaml"))
}
