package mesh

import (
	"slices"

	"cogentcore.org/core/math32"
	"github.com/aretw0/immense/pkg/geom"
)

// Face is a polygon given as local vertex indices, in winding order.
type Face []int

// Mesh is a polygon mesh in its own local index space.
type Mesh struct {
	Vertices []math32.Vector3
	Faces    []Face
}

// New builds a mesh and checks that every face has at least three indices,
// all of them inside the vertex range. Malformed faces are never clamped.
func New(vertices []math32.Vector3, faces []Face) (*Mesh, error) {
	if err := validate(len(vertices), faces); err != nil {
		return nil, err
	}
	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

// Validate checks every face of m against its own vertices. Meshes built by
// New are always valid; literals assembled by hand may not be.
func (m *Mesh) Validate() error {
	return validate(len(m.Vertices), m.Faces)
}

// MustNew is like New but panics on a malformed mesh.
// It is meant for built-in shapes whose topology is fixed.
func MustNew(vertices []math32.Vector3, faces []Face) *Mesh {
	m, err := New(vertices, faces)
	if err != nil {
		panic(err)
	}
	return m
}

func validate(n int, faces []Face) error {
	var errs []error
	for fi, f := range faces {
		if len(f) < 3 {
			errs = append(errs, &FaceError{Face: fi, Index: -1, Err: ErrFaceTooSmall})
			continue
		}
		for _, idx := range f {
			if idx < 0 || idx >= n {
				errs = append(errs, &FaceError{Face: fi, Index: idx, Err: ErrIndexOutOfRange})
			}
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Transform returns a new mesh with every vertex mapped through t.
// Faces are copied unchanged; the receiver is not modified.
func (m *Mesh) Transform(t geom.Transform) *Mesh {
	verts := make([]math32.Vector3, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = t.Apply(v)
	}
	faces := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = slices.Clone(f)
	}
	return &Mesh{Vertices: verts, Faces: faces}
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh reports zero vectors.
func (m *Mesh) Bounds() (lo, hi math32.Vector3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = math32.Vec3(math32.Min(lo.X, v.X), math32.Min(lo.Y, v.Y), math32.Min(lo.Z, v.Z))
		hi = math32.Vec3(math32.Max(hi.X, v.X), math32.Max(hi.Y, v.Y), math32.Max(hi.Z, v.Z))
	}
	return lo, hi
}
