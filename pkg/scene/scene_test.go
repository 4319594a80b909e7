package scene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tileYAML = `
name: recursive-tile
description: A cube with a smaller copy of itself beside it.
seed: 7
depth: 3
entry: tile
rules:
  tile:
    - shape: cube
      transforms: [{translate: [0.25, 0.25, 0]}, {scale: 0.4}]
    - ref: tile
      transforms: [{translate: [0.25, -0.25, 0]}, {scale: 0.5}]
`

func TestParse_YAML(t *testing.T) {
	s, err := scene.Parse([]byte(tileYAML), scene.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "recursive-tile", s.Name)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, 3, s.EffectiveDepth())
	assert.Equal(t, "tile", s.Entry)
	require.Len(t, s.Rules["tile"], 2)
	assert.Equal(t, "shape", s.Rules["tile"][0].Kind())
	assert.Equal(t, "ref", s.Rules["tile"][1].Kind())
	require.NoError(t, s.Validate())
}

func TestParse_JSON(t *testing.T) {
	doc := `{"entry": "row", "rules": {"row": [
		{"shape": "quad", "replicate": {"count": 4, "step": [{"x": 1.5}]}}
	]}}`
	s, err := scene.Parse([]byte(doc), scene.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	n := s.Rules["row"][0]
	require.NotNil(t, n.Replicate)
	assert.Equal(t, 4, n.Replicate.Count)
	assert.Equal(t, scene.DefaultDepth, s.EffectiveDepth())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format scene.Format
	}{
		{"empty yaml", "", scene.FormatYAML},
		{"unknown field", "entry: a\nrulez: {}\n", scene.FormatYAML},
		{"bad json", "{", scene.FormatJSON},
		{"unknown json field", `{"entry": "a", "colour": "red"}`, scene.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scene.Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidScene)
		})
	}

	_, err := scene.Parse([]byte("entry: a"), scene.Format("toml"))
	assert.Error(t, err)
}

func TestLoad_NameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spiral.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: a\nrules:\n  a:\n    - shape: cube\n"), 0644))

	s, err := scene.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spiral", s.Name)

	_, err = scene.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, scene.FormatJSON, scene.FormatFromPath("a/b.JSON"))
	assert.Equal(t, scene.FormatYAML, scene.FormatFromPath("a/b.yml"))
	assert.Equal(t, scene.FormatYAML, scene.FormatFromPath("noext"))
}

func TestMarshal_ParsesBack(t *testing.T) {
	s, err := scene.Parse([]byte(tileYAML), scene.FormatYAML)
	require.NoError(t, err)

	for _, f := range []scene.Format{scene.FormatYAML, scene.FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			data, err := scene.Marshal(s, f)
			require.NoError(t, err)

			back, err := scene.Parse(data, f)
			require.NoError(t, err)
			require.NoError(t, back.Validate())
			assert.Equal(t, s.Name, back.Name)
			assert.Equal(t, s.RuleNames(), back.RuleNames())
		})
	}
}
