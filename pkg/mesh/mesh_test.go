package mesh_test

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() []math32.Vector3 {
	return []math32.Vector3{math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)}
}

func TestNew_Valid(t *testing.T) {
	m, err := mesh.New(triangle(), []mesh.Face{{0, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.FaceCount())
}

func TestNew_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		faces   []mesh.Face
		wantErr error
		count   int
	}{
		{"index past end", []mesh.Face{{0, 1, 3}}, mesh.ErrIndexOutOfRange, 1},
		{"negative index", []mesh.Face{{-1, 1, 2}}, mesh.ErrIndexOutOfRange, 1},
		{"degenerate face", []mesh.Face{{0, 1}}, mesh.ErrFaceTooSmall, 1},
		{"several problems", []mesh.Face{{0, 1}, {0, 5, 6}}, mesh.ErrIndexOutOfRange, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := mesh.New(triangle(), tt.faces)
			assert.Nil(t, m)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var aggr *mesh.AggregateError
			require.True(t, errors.As(err, &aggr))
			assert.Len(t, aggr.Errors, tt.count)

			var fe *mesh.FaceError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		mesh.MustNew(triangle(), []mesh.Face{{0, 1, 9}})
	})
}

func TestTransform_PreservesTopology(t *testing.T) {
	cube := mesh.Cube()
	moved := cube.Transform(geom.TranslateX(3))

	require.Equal(t, cube.VertexCount(), moved.VertexCount())
	assert.Equal(t, cube.Faces, moved.Faces)
	for i, v := range cube.Vertices {
		assert.InDelta(t, v.X+3, moved.Vertices[i].X, 1e-6)
		assert.Equal(t, v.Y, moved.Vertices[i].Y)
		assert.Equal(t, v.Z, moved.Vertices[i].Z)
	}

	// The source mesh is untouched and shares no face storage.
	moved.Faces[0][0] = 7
	assert.Equal(t, 0, cube.Faces[0][0])
	assert.Equal(t, float32(-0.5), cube.Vertices[0].X)
}

func TestTransform_RoundTripScale(t *testing.T) {
	cube := mesh.Cube()
	back := cube.Transform(geom.ScaleBy(0.4)).Transform(geom.ScaleBy(2.5))
	for i, v := range cube.Vertices {
		assert.InDelta(t, v.X, back.Vertices[i].X, 1e-5)
		assert.InDelta(t, v.Y, back.Vertices[i].Y, 1e-5)
		assert.InDelta(t, v.Z, back.Vertices[i].Z, 1e-5)
	}
}

func TestBounds(t *testing.T) {
	lo, hi := mesh.Cube().Transform(geom.ScaleXYZ(2, 4, 6)).Bounds()
	assert.Equal(t, math32.Vec3(-1, -2, -3), lo)
	assert.Equal(t, math32.Vec3(1, 2, 3), hi)

	lo, hi = (&mesh.Mesh{}).Bounds()
	assert.Equal(t, math32.Vector3{}, lo)
	assert.Equal(t, math32.Vector3{}, hi)
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *mesh.Mesh
		vertices int
		faces    int
	}{
		{"cube", mesh.Cube(), 8, 6},
		{"tetrahedron", mesh.Tetrahedron(), 4, 4},
		{"quad", mesh.Quad(), 4, 1},
		{"icosahedron", mesh.Icosahedron(), 12, 20},
		{"icosphere 0", mesh.Icosphere(0), 12, 20},
		{"icosphere 1", mesh.Icosphere(1), 42, 80},
		{"icosphere 2", mesh.Icosphere(2), 162, 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.vertices, tt.mesh.VertexCount())
			assert.Equal(t, tt.faces, tt.mesh.FaceCount())
			_, err := mesh.New(tt.mesh.Vertices, tt.mesh.Faces)
			assert.NoError(t, err)
		})
	}
}

func TestIcosphere_OnUnitSphere(t *testing.T) {
	for _, v := range mesh.Icosphere(2).Vertices {
		assert.InDelta(t, 1.0, v.Length(), 1e-5)
	}
}
