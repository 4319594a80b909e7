package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/immense/pkg/adapters/memory"
	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rowYAML = `
name: row
entry: row
rules:
  row:
    - shape: cube
      replicate: {count: 3, step: [{x: 1.5}]}
`

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRenderScene(t *testing.T) {
	s := NewServer(memory.NewStore())
	ctx := context.Background()

	res, err := s.handleRender(ctx, mcp.CallToolRequest{}, RenderArgs{Scene: rowYAML})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RenderID)
	assert.Equal(t, 3, res.Meshes)
	assert.Equal(t, 24, res.Vertices)

	doc, err := obj.Decode(strings.NewReader(res.OBJ))
	require.NoError(t, err)
	assert.Len(t, doc.Vertices, 24)
	assert.Len(t, doc.Faces, 18)
}

func TestRenderSceneOptions(t *testing.T) {
	store := memory.NewStore()
	sc, err := scene.Parse([]byte(rowYAML), scene.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "row", sc))
	s := NewServer(store)

	tests := []struct {
		name    string
		args    RenderArgs
		meshes  int
		wantErr error
	}{
		{"stored", RenderArgs{Name: "row"}, 3, nil},
		{"stored with depth", RenderArgs{Name: "row", Depth: ptr(0)}, 3, nil},
		{"missing", RenderArgs{Name: "nope"}, 0, domain.ErrSceneNotFound},
		{"invalid", RenderArgs{Scene: "entry: x\n"}, 0, domain.ErrInvalidScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleRender(context.Background(), mcp.CallToolRequest{}, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.meshes, res.Meshes)
		})
	}
}

func TestRenderSceneNeedsInput(t *testing.T) {
	s := NewServer(memory.NewStore())

	_, err := s.handleRender(context.Background(), mcp.CallToolRequest{}, RenderArgs{})
	assert.ErrorContains(t, err, "either scene or name")
}

func ptr[T any](v T) *T { return &v }

func TestRenderSceneOutputCap(t *testing.T) {
	s := NewServer(memory.NewStore(), WithMaxOutput(64))

	_, err := s.handleRender(context.Background(), mcp.CallToolRequest{}, RenderArgs{Scene: rowYAML})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 64 bytes")
}

func TestValidateScene(t *testing.T) {
	s := NewServer(memory.NewStore())

	res, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"scene": rowYAML})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 3, res.Meshes)

	bad := "entry: main\nrules:\n  main:\n    - shape: blob\n"
	res, err = s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"scene": bad})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "rules.main[0].shape")
}

func TestSceneTools(t *testing.T) {
	s := NewServer(memory.NewStore())
	ctx := context.Background()

	// 1. Save
	res, err := s.handleSaveScene(ctx, callRequest(map[string]any{"name": "row", "scene": rowYAML}))
	require.NoError(t, err)
	assert.False(t, res.IsError, resultText(t, res))

	// 2. Get
	res, err = s.handleGetScene(ctx, callRequest(map[string]any{"name": "row"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "shape: cube")

	// 3. Missing
	res, err = s.handleGetScene(ctx, callRequest(map[string]any{"name": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// 4. Invalid document is rejected
	res, err = s.handleSaveScene(ctx, callRequest(map[string]any{"name": "bad", "scene": "entry: x\n"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// 5. Resource lists stored names
	contents, err := s.readScenes(ctx)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &names))
	assert.Equal(t, []string{"row"}, names)
}
