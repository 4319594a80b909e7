package obj_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_SingleTriangle(t *testing.T) {
	m := mesh.MustNew(
		[]math32.Vector3{math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1.5, -2)},
		[]mesh.Face{{0, 1, 2}},
	)

	var buf bytes.Buffer
	require.NoError(t, obj.WriteMeshes([]*mesh.Mesh{m}, &buf))
	assert.Equal(t, "v 0 0 0\nv 1 0 0\nv 0 1.5 -2\nf 1 2 3\n", buf.String())
}

func TestEncode_GlobalOffsets(t *testing.T) {
	meshes := []*mesh.Mesh{mesh.Cube(), mesh.Cube(), mesh.Tetrahedron()}

	var buf bytes.Buffer
	require.NoError(t, obj.WriteMeshes(meshes, &buf))

	doc, err := obj.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, doc.Vertices, 20)
	require.Len(t, doc.Faces, 16)

	// Third mesh (tetrahedron) occupies global 1-based indices 17..20.
	for _, f := range doc.Faces[12:] {
		for _, idx := range f {
			assert.GreaterOrEqual(t, idx+1, 17)
			assert.LessOrEqual(t, idx+1, 20)
		}
	}
	// Second cube occupies 9..16.
	for _, f := range doc.Faces[6:12] {
		for _, idx := range f {
			assert.GreaterOrEqual(t, idx+1, 9)
			assert.LessOrEqual(t, idx+1, 16)
		}
	}
}

func TestEncoder_OffsetAndStats(t *testing.T) {
	var buf bytes.Buffer
	enc := obj.NewEncoder(&buf)
	assert.Equal(t, 0, enc.Offset())

	require.NoError(t, enc.Encode(mesh.Cube()))
	assert.Equal(t, 8, enc.Offset())
	require.NoError(t, enc.Encode(mesh.Quad()))
	assert.Equal(t, 12, enc.Offset())
	require.NoError(t, enc.Flush())

	assert.Equal(t, obj.Stats{Meshes: 2, Vertices: 12, Faces: 7}, enc.Stats())
	assert.Contains(t, buf.String(), "f 9 10 11 12\n")
}

func TestEncode_Options(t *testing.T) {
	var buf bytes.Buffer
	_, err := obj.WriteSeq(rule.Quad().Tf(geom.Replicate(2, geom.TranslateX(1))).Meshes(), &buf,
		obj.WithComment("generated\nby test"),
		obj.WithObjectNames(func(i int) string { return fmt.Sprintf("part_%d", i) }),
		obj.WithPrecision(2),
	)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# generated\n# by test\no part_0\n"), out)
	assert.Contains(t, out, "o part_1\n")
	assert.Contains(t, out, "v 0.50 -0.50 0.00\n")
	assert.Equal(t, 1, strings.Count(out, "# generated"))

	doc, err := obj.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"part_0", "part_1"}, doc.Objects)
}

// failingWriter accepts limit bytes and then fails.
type failingWriter struct {
	limit   int
	written int
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		n := w.limit - w.written
		w.written = w.limit
		return n, errDiskFull
	}
	w.written += len(p)
	return len(p), nil
}

func TestEncode_WriteFailureAborts(t *testing.T) {
	big := mesh.Icosphere(4) // larger than the bufio buffer
	w := &failingWriter{limit: 100}

	enc := obj.NewEncoder(w)
	err := enc.Encode(big)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 0, enc.Stats().Meshes)

	// Sticky: later calls report the same failure without writing.
	assert.ErrorIs(t, enc.Encode(mesh.Cube()), errDiskFull)
	assert.ErrorIs(t, enc.Flush(), errDiskFull)
	assert.Equal(t, 100, w.written)
}

func TestWriteMeshes_FlushFailure(t *testing.T) {
	w := &failingWriter{limit: 10}
	err := obj.WriteMeshes([]*mesh.Mesh{mesh.Cube()}, w)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestWriteSeq_Empty(t *testing.T) {
	var buf bytes.Buffer
	stats, err := obj.WriteSeq(rule.New().Meshes(), &buf)
	require.NoError(t, err)
	assert.Equal(t, obj.Stats{}, stats)
	assert.Empty(t, buf.String())
}

func TestWriteMeshes_RejectsMalformedLiteral(t *testing.T) {
	bad := &mesh.Mesh{
		Vertices: []math32.Vector3{math32.Vec3(0, 0, 0)},
		Faces:    []mesh.Face{{0, 5, 9}},
	}

	var buf bytes.Buffer
	err := obj.WriteMeshes([]*mesh.Mesh{mesh.Tetrahedron(), bad}, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, mesh.ErrIndexOutOfRange)

	var faceErr *mesh.FaceError
	require.ErrorAs(t, err, &faceErr)
	assert.Equal(t, 5, faceErr.Index)
	assert.NotContains(t, buf.String(), "f 5 10 14")
}

func TestEncode_NilMeshSkipped(t *testing.T) {
	var buf bytes.Buffer
	stats, err := obj.WriteSeq(func(yield func(*mesh.Mesh) bool) {
		for _, m := range []*mesh.Mesh{nil, mesh.Quad(), nil} {
			if !yield(m) {
				return
			}
		}
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Meshes)
	assert.Equal(t, 4, stats.Vertices)
}
